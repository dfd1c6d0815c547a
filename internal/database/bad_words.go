package database

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Word list used to screen learner display names and generated usernames.
const badWordsURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"

// SeedBadWords downloads the screening word list into the bad_words
// table. It is a no-op when the table already has rows.
func (db *DB) SeedBadWords() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM bad_words").Scan(&count); err != nil {
		return fmt.Errorf("failed to check bad words count: %w", err)
	}
	if count > 0 {
		log.Printf("Name filter already populated with %d words", count)
		return nil
	}

	log.Println("Downloading name filter word list...")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(badWordsURL)
	if err != nil {
		return fmt.Errorf("failed to download word list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from word list URL: %d", resp.StatusCode)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(db.Dialect.RewriteQuery("INSERT INTO bad_words (word) VALUES (?)"))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		word := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if word == "" {
			continue
		}
		// Duplicates in the source list trip the unique index; keep going.
		if _, err := stmt.Exec(word); err != nil {
			continue
		}
		inserted++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading word list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Name filter populated with %d words", inserted)
	return nil
}

// IsBadWord reports whether the word, lowercased and trimmed, is on the
// screening list.
func (db *DB) IsBadWord(word string) (bool, error) {
	clean := strings.TrimSpace(strings.ToLower(word))

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM bad_words WHERE word = ?", clean).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check word: %w", err)
	}
	return count > 0, nil
}

// ValidateWords screens each word and returns the ones that are flagged.
func (db *DB) ValidateWords(words []string) ([]string, error) {
	var flagged []string
	for _, word := range words {
		bad, err := db.IsBadWord(word)
		if err != nil {
			return nil, err
		}
		if bad {
			flagged = append(flagged, word)
		}
	}
	return flagged, nil
}
