// Package provider builds the upstream catalog providers: scraped web pages,
// Lua scripts and the bundled demo catalog.
package provider

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/constant"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/filesystem"
	"github.com/streamdex/streamdex/provider/custom"
	"github.com/streamdex/streamdex/util"
)

// CustomProviderExtension is the extension of Lua provider scripts.
const CustomProviderExtension = ".lua"

// Descriptor identifies a provider before it is built.
type Descriptor struct {
	ID       string
	Name     string
	IsCustom bool
	// Path is the script of a custom provider.
	Path string
}

func (d *Descriptor) String() string {
	return d.Name
}

// Deps are the collaborators providers are built with.
type Deps struct {
	Scraper         Scraper
	Categorizer     *categorize.Categorizer
	Pages           []string
	Concurrency     int
	FollowRedirects bool
}

// Builtins returns the providers compiled into the binary.
func Builtins() []*Descriptor {
	return []*Descriptor{
		{ID: WebID, Name: WebID},
		{ID: DemoID, Name: DemoID},
	}
}

// Customs returns the Lua providers found in dir.
func Customs(dir string) ([]*Descriptor, error) {
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var descriptors []*Descriptor
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != CustomProviderExtension {
			continue
		}

		name := util.FileStem(f.Name())
		descriptors = append(descriptors, &Descriptor{
			ID:       custom.IDfromName(name),
			Name:     name,
			IsCustom: true,
			Path:     filepath.Join(dir, f.Name()),
		})
	}

	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors, nil
}

// Get finds a provider by name, builtins first.
func Get(dir, name string) (*Descriptor, bool) {
	customs, _ := Customs(dir)
	return lo.Find(append(Builtins(), customs...), func(d *Descriptor) bool {
		return d.Name == name
	})
}

// Open builds the provider d describes.
func Open(d *Descriptor, deps Deps) (content.Provider, error) {
	if deps.Categorizer == nil {
		deps.Categorizer = categorize.New(nil)
	}

	switch {
	case d.IsCustom:
		return custom.Load(d.Path, deps.Scraper, deps.Categorizer)
	case d.ID == WebID:
		return NewWeb(WebConfig{
			Scraper:         deps.Scraper,
			Categorizer:     deps.Categorizer,
			Pages:           deps.Pages,
			Concurrency:     deps.Concurrency,
			FollowRedirects: deps.FollowRedirects,
		}), nil
	case d.ID == DemoID:
		return NewDemo(deps.Categorizer), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", d.Name)
	}
}

// Resolve builds the named providers from dir and merges them. Without names
// the web provider is used when pages are configured.
func Resolve(dir string, names []string, deps Deps) (content.Provider, error) {
	if len(names) == 0 {
		if len(deps.Pages) == 0 {
			return content.NoProvider{}, nil
		}
		names = []string{WebID}
	}

	providers := make([]content.Provider, 0, len(names))
	for _, name := range lo.Uniq(names) {
		d, ok := Get(dir, name)
		if !ok {
			return nil, unknownProviderError(dir, name)
		}
		p, err := Open(d, deps)
		if err != nil {
			return nil, fmt.Errorf("open provider %s: %w", name, err)
		}
		providers = append(providers, p)
	}

	if len(providers) == 1 {
		return providers[0], nil
	}
	return NewMulti(providers...), nil
}

func unknownProviderError(dir, name string) error {
	customs, _ := Customs(dir)
	names := lo.Map(append(Builtins(), customs...), func(d *Descriptor, _ int) string { return d.Name })

	closest := lo.MinBy(names, func(a, b string) bool {
		return levenshtein.Distance(a, name) < levenshtein.Distance(b, name)
	})
	if closest != "" && levenshtein.Distance(closest, name) <= 3 {
		return fmt.Errorf("unknown provider %q, did you mean %q?", name, closest)
	}
	return fmt.Errorf("unknown provider %q", name)
}

// Scaffold writes a new Lua provider script from the template to w.
func Scaffold(w io.Writer, name, url, author string) error {
	funcMap := template.FuncMap{
		"repeat": strings.Repeat,
		"plus":   func(a, b int) int { return a + b },
		"max":    util.Max[int],
	}

	tmpl, err := template.New("provider").Funcs(funcMap).Parse(constant.ProviderTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, struct {
		Name      string
		URL       string
		Author    string
		CatalogFn string
	}{
		Name:      name,
		URL:       url,
		Author:    author,
		CatalogFn: constant.CatalogFn,
	})
}
