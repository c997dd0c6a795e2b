package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"askstream/pkg/cardstack"
)

//go:embed data/*.json
var dataFS embed.FS

const defaultDataFile = "data/askstream.json"

// ErrUnsupportedFormat is returned for data files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// Data is the mock content rendered by the streams page.
type Data struct {
	AskBar        AskBar         `json:"askBar" yaml:"askBar"`
	Sections      Sections       `json:"sections" yaml:"sections"`
	StackedCards  []StackedCard  `json:"stackedCards" yaml:"stackedCards"`
	DataSources   []DataSource   `json:"dataSources" yaml:"dataSources"`
	Bookmarks     []Bookmark     `json:"bookmarks" yaml:"bookmarks"`
	HistoryGroups []HistoryGroup `json:"historyGroups" yaml:"historyGroups"`
}

// AskBar is the heading block above the question input.
type AskBar struct {
	Heading     string   `json:"heading" yaml:"heading"`
	Subheading  string   `json:"subheading" yaml:"subheading"`
	Placeholder string   `json:"placeholder" yaml:"placeholder"`
	Badges      []string `json:"badges" yaml:"badges"`
}

// Section is a titled text card.
type Section struct {
	Title    string `json:"title" yaml:"title"`
	Headline string `json:"headline" yaml:"headline"`
	Body     string `json:"body" yaml:"body"`
}

// Sections holds the three fixed dashboard sections.
type Sections struct {
	Section1 Section `json:"section1" yaml:"section1"`
	Section2 Section `json:"section2" yaml:"section2"`
	Section3 Section `json:"section3" yaml:"section3"`
}

// StackedCard is a card in the carousel as stored in the data file.
type StackedCard struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Headline string `json:"headline" yaml:"headline"`
	Body     string `json:"body" yaml:"body"`
}

// DataSource is one entry of the data source list.
type DataSource struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Date    string `json:"date" yaml:"date"`
	Summary string `json:"summary" yaml:"summary"`
}

// Bookmark is a saved question.
type Bookmark struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// HistoryItem is a past question.
type HistoryItem struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// HistoryGroup is a collapsible group of past questions.
type HistoryGroup struct {
	ID    string        `json:"id" yaml:"id"`
	Title string        `json:"title" yaml:"title"`
	Items []HistoryItem `json:"items" yaml:"items"`
}

// Loader produces the dashboard data.
type Loader func() (Data, error)

// FileLoader returns a Loader reading path, or the embedded data when path is empty.
func FileLoader(path string) Loader {
	return func() (Data, error) {
		return LoadData(path)
	}
}

// LoadData reads dashboard data from path. An empty path loads the embedded default.
func LoadData(path string) (Data, error) {
	if strings.TrimSpace(path) == "" {
		b, err := fs.ReadFile(dataFS, defaultDataFile)
		if err != nil {
			return Data{}, fmt.Errorf("read embedded data: %w", err)
		}
		return DecodeData(b, ".json")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read data file: %w", err)
	}
	data, err := DecodeData(b, filepath.Ext(path))
	if err != nil {
		return Data{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// DecodeData decodes b according to the file extension ext.
func DecodeData(b []byte, ext string) (Data, error) {
	var data Data
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&data); err != nil {
			return Data{}, fmt.Errorf("decode json: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&data); err != nil {
			return Data{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Data{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return data, nil
}

// StackCards converts the carousel records into stack cards. Ids of the form
// "card-N" select palette entry N; anything else uses the list index.
func StackCards(cards []StackedCard) []cardstack.Card {
	out := make([]cardstack.Card, 0, len(cards))
	for i, card := range cards {
		out = append(out, cardstack.Card{
			ID:         card.ID,
			Title:      card.Title,
			Subtitle:   card.Headline,
			Content:    card.Body,
			PaletteKey: paletteKey(card.ID, i),
		})
	}
	return out
}

// paletteKey reads the integer prefix left after removing "card-" from id, so
// "card-3" and "card-3b" both map to 3. Ids without one, or with 0, use index.
func paletteKey(id string, index int) int {
	n, ok := leadingInt(strings.Replace(id, "card-", "", 1))
	if !ok || n == 0 {
		return index
	}
	return n
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
