// Package generate produces randomized object payloads, metadata and tags.
//
// All output is a pure function of the random source handed to New, so a
// fixed seed reproduces the same fixtures run after run.
package generate

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Alphabet is the character set used for object payloads.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Candidate values for generated metadata.
var (
	Authors = []string{
		"J.K. Rowling", "George Orwell", "Isaac Asimov", "Margaret Atwood", "William Shakespeare",
	}
	Genres = []string{
		"Fantasy", "Science Fiction", "Biography", "Historical Fiction", "Romance",
	}
	Editions = []string{
		"First Edition", "Revised Edition", "Digital Edition", "Special Edition", "Paperback Edition",
	}
	Languages = []string{"English", "Spanish", "French", "German", "Italian"}
)

// Publication year and rating bounds for generated metadata.
const (
	MinPublishYear = 1990
	MaxPublishYear = 2023
	MinRating      = 1.0
	MaxRating      = 5.0
)

// Candidate values for generated tags.
var (
	Categories   = []string{"Novel", "Research Paper", "Short Story", "Essay", "Anthology"}
	Statuses     = []string{"Published", "Draft", "Under Review", "Archived"}
	Regions      = []string{"US", "Europe", "Asia", "Africa", "Australia"}
	AccessLevels = []string{"Public", "Private", "Restricted"}
	Projects     = []string{"Project_A", "Project_B", "Project_C", "Project_D"}
)

// Generator draws fixtures from an injected random source.
// It is not safe for concurrent use, same as the *rand.Rand it wraps.
type Generator struct {
	rand *rand.Rand
}

// New returns a Generator drawing from r.
func New(r *rand.Rand) *Generator {
	return &Generator{rand: r}
}

// NewSeeded returns a Generator with its own source seeded by seed.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// Content returns size random letters and digits.
func (g *Generator) Content(size int) []byte {
	if size <= 0 {
		return []byte{}
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = Alphabet[g.rand.Intn(len(Alphabet))]
	}
	return buf
}

// Metadata returns a six-field metadata mapping.
func (g *Generator) Metadata() map[string]string {
	rating := MinRating + g.rand.Float64()*(MaxRating-MinRating)
	return map[string]string{
		"author":       g.pick(Authors),
		"genre":        g.pick(Genres),
		"edition":      g.pick(Editions),
		"publish_year": strconv.Itoa(g.IntInRange(MinPublishYear, MaxPublishYear)),
		"language":     g.pick(Languages),
		"rating":       fmt.Sprintf("%.1f", rating),
	}
}

// Tags returns a five-field tag mapping.
func (g *Generator) Tags() map[string]string {
	return map[string]string{
		"category":     g.pick(Categories),
		"status":       g.pick(Statuses),
		"region":       g.pick(Regions),
		"access_level": g.pick(AccessLevels),
		"project":      g.pick(Projects),
	}
}

// IntInRange returns an integer in [lo, hi]. Bounds are swapped if reversed.
func (g *Generator) IntInRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + g.rand.Intn(hi-lo+1)
}

func (g *Generator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}
