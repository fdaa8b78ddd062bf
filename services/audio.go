package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	dictionaryAPIURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"
	defaultAudioURL  = "https://api.dictionaryapi.dev/media/pronunciations/en/example-us.mp3"
	audioCacheDir    = "static/audio"
)

var audioClient = &http.Client{Timeout: 10 * time.Second}

// WordAudioURL resolves a pronunciation URL for the word. Fetched audio
// is cached under static/audio and served from there on later calls;
// lookup failures fall back to a default clip rather than erroring.
func WordAudioURL(word string) string {
	if err := os.MkdirAll(audioCacheDir, 0o755); err != nil {
		log.Printf("WordAudioURL: cannot create cache dir: %v", err)
		return defaultAudioURL
	}

	cacheFile := filepath.Join(audioCacheDir, word+".mp3")
	if _, err := os.Stat(cacheFile); err == nil {
		return "/static/audio/" + word + ".mp3"
	}

	audioURL, err := lookupAudioURL(word)
	if err != nil {
		log.Printf("WordAudioURL: lookup failed for %q: %v", word, err)
		return defaultAudioURL
	}

	if err := downloadAudio(audioURL, cacheFile); err != nil {
		log.Printf("WordAudioURL: download failed for %q: %v", word, err)
		return audioURL
	}
	return "/static/audio/" + word + ".mp3"
}

func lookupAudioURL(word string) (string, error) {
	resp, err := audioClient.Get(dictionaryAPIURL + word)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dictionary API returned %d", resp.StatusCode)
	}

	var entries []struct {
		Phonetics []struct {
			Audio string `json:"audio"`
		} `json:"phonetics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", err
	}

	for _, entry := range entries {
		for _, phonetic := range entry.Phonetics {
			if phonetic.Audio != "" {
				return phonetic.Audio, nil
			}
		}
	}
	return "", fmt.Errorf("no pronunciation found")
}

func downloadAudio(url, dest string) error {
	resp, err := audioClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio fetch returned %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}
