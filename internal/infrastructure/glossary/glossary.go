// Package glossary loads brand terminology that every AI translation request
// must respect.
package glossary

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// File is the YAML layout of a glossary file.
type File struct {
	Terms []Term `yaml:"terms"`
}

// Term is one source/target pair. Languages restricts it to some target
// languages; empty means every language.
type Term struct {
	Source    string   `yaml:"source"`
	Target    string   `yaml:"target"`
	Note      string   `yaml:"note,omitempty"`
	Languages []string `yaml:"languages,omitempty"`
}

type Glossary struct {
	terms []Term
}

// Load reads a glossary file. A missing file yields an empty glossary.
func Load(path string) (*Glossary, error) {
	if strings.TrimSpace(path) == "" {
		return &Glossary{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Glossary{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return g, nil
}

func Parse(data []byte) (*Glossary, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	terms := make([]Term, 0, len(f.Terms))
	for i, t := range f.Terms {
		t.Source = strings.TrimSpace(t.Source)
		t.Target = strings.TrimSpace(t.Target)
		if t.Source == "" {
			return nil, fmt.Errorf("term #%d has no source", i+1)
		}
		// Brand names are kept verbatim unless a target is given.
		if t.Target == "" {
			t.Target = t.Source
		}
		for j, lang := range t.Languages {
			t.Languages[j] = strings.ToLower(strings.TrimSpace(lang))
		}
		terms = append(terms, t)
	}
	return &Glossary{terms: terms}, nil
}

func (g *Glossary) TermsFor(targetLanguage string) []domain.GlossaryTerm {
	if g == nil {
		return nil
	}
	lang := strings.ToLower(strings.TrimSpace(targetLanguage))
	out := make([]domain.GlossaryTerm, 0, len(g.terms))
	for _, t := range g.terms {
		if !appliesTo(t, lang) {
			continue
		}
		out = append(out, domain.GlossaryTerm{Source: t.Source, Target: t.Target, Note: t.Note})
	}
	return out
}

func (g *Glossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.terms)
}

func appliesTo(t Term, lang string) bool {
	if len(t.Languages) == 0 {
		return true
	}
	for _, l := range t.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
