// Package mockdata generates plausible vendor responses for demos and for
// serving when a vendor is unreachable. A Generator created with a given seed
// always yields the same sequence.
package mockdata

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Epoch is the base for generated timestamps.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Generator produces deterministic fake values. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New creates a Generator seeded with seed.
func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

func (g *Generator) with(fn func(f *gofakeit.Faker)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.faker)
}

// ID returns an identifier such as "doc_3f9a1c2b".
func (g *Generator) ID(prefix string) string {
	var id string
	g.with(func(f *gofakeit.Faker) {
		id = strings.ReplaceAll(f.UUID(), "-", "")[:8]
	})
	return prefix + "_" + id
}

// Name returns a person's full name.
func (g *Generator) Name() (name string) {
	g.with(func(f *gofakeit.Faker) { name = f.Name() })
	return name
}

// Email returns an email address.
func (g *Generator) Email() (email string) {
	g.with(func(f *gofakeit.Faker) { email = f.Email() })
	return email
}

// Company returns a company name.
func (g *Generator) Company() (company string) {
	g.with(func(f *gofakeit.Faker) { company = f.Company() })
	return company
}

// Phone returns a US number in E.164 form.
func (g *Generator) Phone() string {
	var n int
	g.with(func(f *gofakeit.Faker) { n = f.Number(2000000, 9999999) })
	return fmt.Sprintf("+1415%07d", n)
}

// Title returns a capitalised phrase of n words.
func (g *Generator) Title(n int) string {
	words := make([]string, 0, n)
	g.with(func(f *gofakeit.Faker) {
		for range n {
			w := f.Word()
			words = append(words, strings.ToUpper(w[:1])+w[1:])
		}
	})
	return strings.Join(words, " ")
}

// Sentence returns n lowercase words followed by a period.
func (g *Generator) Sentence(n int) string {
	words := make([]string, 0, n)
	g.with(func(f *gofakeit.Faker) {
		for range n {
			words = append(words, f.Word())
		}
	})
	s := strings.Join(words, " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// IntRange returns an int in [min, max].
func (g *Generator) IntRange(min, max int) (n int) {
	g.with(func(f *gofakeit.Faker) { n = f.Number(min, max) })
	return n
}

// Amount returns a currency amount in [min, max] rounded to cents.
func (g *Generator) Amount(min, max float64) float64 {
	var v float64
	g.with(func(f *gofakeit.Faker) { v = f.Float64Range(min, max) })
	return float64(int64(v*100+0.5)) / 100
}

// Pick returns one of options.
func (g *Generator) Pick(options ...string) string {
	if len(options) == 0 {
		return ""
	}
	return options[g.IntRange(0, len(options)-1)]
}

// Time returns a timestamp within window after Epoch.
func (g *Generator) Time(window time.Duration) time.Time {
	secs := int(window / time.Second)
	if secs < 1 {
		return Epoch
	}
	return Epoch.Add(time.Duration(g.IntRange(0, secs)) * time.Second)
}

// Code returns a numeric verification code of n digits.
func (g *Generator) Code(n int) string {
	var b strings.Builder
	g.with(func(f *gofakeit.Faker) {
		for range n {
			b.WriteByte(byte('0' + f.Number(0, 9)))
		}
	})
	return b.String()
}
