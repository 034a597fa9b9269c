// Package template loads reference clause templates per contract type and
// finds the template closest to a clause.
package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/clauseguard/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Template is one named reference clause
type Template struct {
	Name string
	Text string
}

// Set is the ordered template list for one contract type
type Set []Template

var (
	typeIDRe   = regexp.MustCompile(`^[a-z0-9_-]+$`)
	headerRe   = regexp.MustCompile(`^\[([^\[\]]+)\]$`)
	blockSepRe = regexp.MustCompile(`\n[ \t]*\n`)
)

// FileName returns the template file name for a contract type
func FileName(contractType string) string {
	return contractType + "_en.txt"
}

// Store reads template files from a directory. Each contract type is read
// at most once; concurrent first requests share one read.
type Store struct {
	dir   string
	log   logging.Logger
	sets  *gocache.Cache
	group singleflight.Group
}

// NewStore creates a store over dir
func NewStore(dir string, log logging.Logger) *Store {
	return &Store{
		dir:  dir,
		log:  logging.OrNop(log).Named("template"),
		sets: gocache.New(gocache.NoExpiration, 0),
	}
}

// Dir returns the template directory
func (s *Store) Dir() string {
	return s.dir
}

// Load returns the templates for a contract type in file order. A missing
// directory or file, or an identifier outside [a-z0-9_-], yields an empty set.
func (s *Store) Load(contractType string) Set {
	contractType = strings.ToLower(strings.TrimSpace(contractType))
	if !typeIDRe.MatchString(contractType) {
		return nil
	}

	if v, ok := s.sets.Get(contractType); ok {
		return v.(Set)
	}

	v, _, _ := s.group.Do(contractType, func() (interface{}, error) {
		if v, ok := s.sets.Get(contractType); ok {
			return v, nil
		}
		set := s.read(contractType)
		s.sets.Set(contractType, set, gocache.NoExpiration)
		return set, nil
	})
	return v.(Set)
}

func (s *Store) read(contractType string) Set {
	path := filepath.Join(s.dir, FileName(contractType))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("no templates for contract type",
				logging.String("type", contractType), logging.String("path", path))
		} else {
			s.log.Warn("read templates failed",
				logging.String("type", contractType), logging.Err(err))
		}
		return Set{}
	}

	set := Parse(string(data))
	s.log.Debug("loaded templates",
		logging.String("type", contractType), logging.Int("count", len(set)))
	return set
}

// Types lists contract types that have a template file, sorted
func (s *Store) Types() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list templates: %w", err)
	}

	var types []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, "_en.txt") {
			continue
		}
		if t := strings.TrimSuffix(name, "_en.txt"); typeIDRe.MatchString(t) {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types, nil
}

// Parse reads the template file format: blocks separated by blank lines, a
// "[name]" block starting each template, and the following blocks joined with
// a newline as its text. Blocks before the first header are ignored; a later
// header with the same name replaces the earlier text in place.
func Parse(content string) Set {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var set Set
	index := make(map[string]int)
	current := -1

	for _, block := range blockSepRe.Split(content, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		if m := headerRe.FindStringSubmatch(block); m != nil {
			name := strings.TrimSpace(m[1])
			if i, ok := index[name]; ok {
				set[i].Text = ""
				current = i
				continue
			}
			index[name] = len(set)
			current = len(set)
			set = append(set, Template{Name: name})
			continue
		}

		if current < 0 {
			continue
		}
		if set[current].Text == "" {
			set[current].Text = block
		} else {
			set[current].Text += "\n" + block
		}
	}
	return set
}
