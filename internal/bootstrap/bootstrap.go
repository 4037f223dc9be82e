// Package bootstrap wires a manager.Manager out of a loaded config.Config:
// it binds named creators into pkg/registry registries for falcons,
// algorithms, twiddlers and dedupers, resolves the names config.Manager
// points at, and hands back a ready-to-serve Manager. This is the Go
// analogue of the original process's static Factory<T>::bind calls made
// at startup, generalized to run off a config file instead of being
// compiled in.
package bootstrap

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/room77/suggestd/pkg/algo"
	"github.com/room77/suggestd/pkg/config"
	"github.com/room77/suggestd/pkg/dedup"
	"github.com/room77/suggestd/pkg/falcon"
	"github.com/room77/suggestd/pkg/fuzzy"
	"github.com/room77/suggestd/pkg/index"
	"github.com/room77/suggestd/pkg/manager"
	"github.com/room77/suggestd/pkg/registry"
	"github.com/room77/suggestd/pkg/store"
	"github.com/room77/suggestd/pkg/suggest"
	"github.com/room77/suggestd/pkg/twiddle"
	"github.com/room77/suggestd/pkg/workerpool"
)

// falconBlob is the JSON shape of a [falcon.<name>] section: the msgpack
// file backing that falcon.
type falconBlob struct {
	File string `json:"file"`
}

// algoBlob is the JSON shape of an [algo.<name>] section. Kind selects
// which concrete algo.Algo gets built; the remaining fields are
// interpreted according to Kind.
type algoBlob struct {
	Kind string `json:"kind"`

	// keyvalue / keyvalue_ex
	Falcon    string `json:"falcon"`
	IndexFile string `json:"index_file"`
	AlgoType  string `json:"algo_type"`

	// bagofwords
	WordAlgo                 string  `json:"word_algo"`
	MaxSuggestionsMultiplier int     `json:"max_suggestions_multiplier"`
	MaxBoost                 float64 `json:"max_boost"`

	// attribute
	AttributeIndexAlgo     string `json:"attribute_index_algo"`
	MaxAttributeCandidates int    `json:"max_attribute_candidates"`

	// spell_correction
	VocabularyFile string `json:"vocabulary_file"`
	DelegateAlgo   string `json:"delegate_algo"`

	// group
	Members           []memberBlob `json:"members"`
	TimeoutRequiredMs int          `json:"timeout_required_ms"`
	TimeoutOptionalMs int          `json:"timeout_optional_ms"`
}

type memberBlob struct {
	Name     string  `json:"name"`
	Algo     string  `json:"algo"`
	Twiddler string  `json:"twiddler"`
	Weight   float64 `json:"weight"`
	Op       string  `json:"op"`
	Required bool    `json:"required"`
}

// twiddleBlob is the JSON shape of a [twiddle.<name>] section.
type twiddleBlob struct {
	Kind              string       `json:"kind"`
	Members           []memberBlob `json:"members"`
	TimeoutRequiredMs int          `json:"timeout_required_ms"`
	TimeoutOptionalMs int          `json:"timeout_optional_ms"`
}

// Registries bundles the named component registries built from a config,
// kept around after Build so callers (tests, a future admin endpoint) can
// resolve additional named instances without re-parsing the config.
type Registries struct {
	Falcons  *registry.Registry[*falcon.Falcon]
	Algos    *registry.Registry[algo.Algo]
	Twiddles *registry.Registry[twiddle.Twiddler]
	Dedupers *registry.Registry[dedup.Deduper]
}

// Build loads every falcon/algo/twiddle section named in cfg, binds a
// registry creator per name, resolves cfg.Manager's named references, and
// returns the wired Manager plus the registries that built it.
func Build(cfg *config.Config) (*manager.Manager, *Registries, error) {
	regs := &Registries{
		Falcons:  registry.New[*falcon.Falcon](),
		Algos:    registry.New[algo.Algo](),
		Twiddles: registry.New[twiddle.Twiddler](),
		Dedupers: registry.New[dedup.Deduper](),
	}

	bindDedupers(regs.Dedupers)

	for name := range cfg.Falcon {
		name := name
		regs.Falcons.Bind(name, func(params string) (*falcon.Falcon, error) {
			var blob falconBlob
			if err := json.Unmarshal([]byte(params), &blob); err != nil {
				return nil, fmt.Errorf("falcon %s: decoding params: %w", name, err)
			}
			f := falcon.New(name)
			if err := f.Load(blob.File); err != nil {
				return nil, err
			}
			return f, nil
		})
	}

	for name := range cfg.Twiddle {
		name := name
		regs.Twiddles.Bind(name, func(params string) (twiddle.Twiddler, error) {
			return buildTwiddler(params, cfg, regs)
		})
	}

	for name := range cfg.Algo {
		name := name
		regs.Algos.Bind(name, func(params string) (algo.Algo, error) {
			return buildAlgo(params, cfg, regs)
		})
	}

	if err := warmFalcons(cfg, regs); err != nil {
		return nil, nil, err
	}
	if err := warmTwiddlers(cfg, regs); err != nil {
		return nil, nil, err
	}
	if err := warmAlgos(cfg, regs); err != nil {
		return nil, nil, err
	}

	primary, err := resolveAlgo(cfg, regs, cfg.Manager.PrimaryAlgo)
	if err != nil {
		return nil, nil, fmt.Errorf("primary_algo: %w", err)
	}
	fallbackAlgo, err := resolveAlgoOptional(cfg, regs, cfg.Manager.FallbackAlgo)
	if err != nil {
		return nil, nil, fmt.Errorf("fallback_algo: %w", err)
	}
	secondary, err := resolveAlgoOptional(cfg, regs, cfg.Manager.SecondaryAlgo)
	if err != nil {
		return nil, nil, fmt.Errorf("secondary_algo: %w", err)
	}

	dedupers := make([]dedup.Deduper, 0, len(cfg.Manager.Dedupers))
	for _, name := range cfg.Manager.Dedupers {
		d, err := regs.Dedupers.MakeShared(name, "")
		if err != nil {
			return nil, nil, fmt.Errorf("dedupers: %w", err)
		}
		dedupers = append(dedupers, d)
	}

	primaryTwiddler, err := resolveTwiddlerOptional(cfg, regs, cfg.Manager.PrimaryTwiddler)
	if err != nil {
		return nil, nil, fmt.Errorf("primary_twiddler: %w", err)
	}
	secondaryTwiddler, err := resolveTwiddlerOptional(cfg, regs, cfg.Manager.SecondaryTwiddler)
	if err != nil {
		return nil, nil, fmt.Errorf("secondary_twiddler: %w", err)
	}

	var pool *workerpool.Pool
	if cfg.Manager.PoolSize > 0 {
		pool = workerpool.New(cfg.Manager.PoolSize, cfg.Manager.PoolSize*4)
	}

	m := manager.New(primary, fallbackAlgo, secondary, dedupers, primaryTwiddler, secondaryTwiddler, pool)
	log.Debugf("bootstrap: wired manager with %d falcons, %d algos, %d twiddlers, %d dedupers",
		len(cfg.Falcon), len(cfg.Algo), len(cfg.Twiddle), len(dedupers))
	return m, regs, nil
}

func bindDedupers(regs *registry.Registry[dedup.Deduper]) {
	regs.Bind("duplicate", func(string) (dedup.Deduper, error) { return dedup.New(), nil })
}

func warmFalcons(cfg *config.Config, regs *Registries) error {
	for name := range cfg.Falcon {
		params, err := cfg.FalconParams(name)
		if err != nil {
			return err
		}
		if _, err := regs.Falcons.MakeShared(name, params); err != nil {
			return fmt.Errorf("falcon %s: %w", name, err)
		}
	}
	return nil
}

func warmTwiddlers(cfg *config.Config, regs *Registries) error {
	for name := range cfg.Twiddle {
		if _, err := resolveTwiddlerOptional(cfg, regs, name); err != nil {
			return err
		}
	}
	return nil
}

func warmAlgos(cfg *config.Config, regs *Registries) error {
	for name := range cfg.Algo {
		if _, err := resolveAlgoOptional(cfg, regs, name); err != nil {
			return err
		}
	}
	return nil
}

func resolveAlgo(cfg *config.Config, regs *Registries, name string) (algo.Algo, error) {
	if name == "" {
		return nil, fmt.Errorf("no algo name configured")
	}
	params, err := cfg.AlgoParams(name)
	if err != nil {
		return nil, err
	}
	return regs.Algos.MakeShared(name, params)
}

func resolveAlgoOptional(cfg *config.Config, regs *Registries, name string) (algo.Algo, error) {
	if name == "" {
		return nil, nil
	}
	return resolveAlgo(cfg, regs, name)
}

func resolveTwiddlerOptional(cfg *config.Config, regs *Registries, name string) (twiddle.Twiddler, error) {
	if name == "" {
		return nil, nil
	}
	params, err := cfg.TwiddleParams(name)
	if err != nil {
		return nil, err
	}
	return regs.Twiddles.MakeShared(name, params)
}

func buildTwiddler(params string, cfg *config.Config, regs *Registries) (twiddle.Twiddler, error) {
	var blob twiddleBlob
	if err := json.Unmarshal([]byte(params), &blob); err != nil {
		return nil, fmt.Errorf("decoding params: %w", err)
	}

	switch blob.Kind {
	case "identity":
		return twiddle.Identity{}, nil
	case "domain_boost":
		return twiddle.DomainBoost{}, nil
	case "group":
		members := make([]twiddle.Member, 0, len(blob.Members))
		for _, m := range blob.Members {
			t, err := resolveTwiddlerOptional(cfg, regs, m.Twiddler)
			if err != nil {
				return nil, fmt.Errorf("member %s: %w", m.Name, err)
			}
			members = append(members, twiddle.Member{
				Name: m.Name, Twiddler: t, Required: m.Required, Weight: m.Weight, Op: m.Op,
			})
		}
		return &twiddle.Group{
			Members:         members,
			TimeoutRequired: time.Duration(blob.TimeoutRequiredMs) * time.Millisecond,
			TimeoutOptional: time.Duration(blob.TimeoutOptionalMs) * time.Millisecond,
		}, nil
	default:
		return nil, fmt.Errorf("unknown twiddler kind %q", blob.Kind)
	}
}

func buildAlgo(params string, cfg *config.Config, regs *Registries) (algo.Algo, error) {
	var blob algoBlob
	if err := json.Unmarshal([]byte(params), &blob); err != nil {
		return nil, fmt.Errorf("decoding params: %w", err)
	}

	switch blob.Kind {
	case "keyvalue":
		idx := index.NewKeyValueStore()
		if err := idx.Load(blob.IndexFile); err != nil {
			return nil, err
		}
		f, err := resolveFalconOptional(cfg, regs, blob.Falcon)
		if err != nil {
			return nil, err
		}
		return &algo.KeyValue{Lookup: idx.AsLookup(), Type: suggest.AlgoTypeFromName(blob.AlgoType), Falcon: f}, nil
	case "keyvalue_ex":
		idx := index.NewKeyValueExStore()
		if err := idx.Load(blob.IndexFile); err != nil {
			return nil, err
		}
		f, err := resolveFalconOptional(cfg, regs, blob.Falcon)
		if err != nil {
			return nil, err
		}
		return &algo.KeyValueEx{
			Lookup: func(key string) ([]suggest.CompletionIndexItemEx, bool) { return idx.Get(key) },
			Type:   suggest.AlgoTypeFromName(blob.AlgoType),
			Falcon: f,
		}, nil
	case "bagofwords":
		word, err := resolveAlgo(cfg, regs, blob.WordAlgo)
		if err != nil {
			return nil, fmt.Errorf("word_algo: %w", err)
		}
		return &algo.BagOfWords{
			WordAlgo:                 word,
			MaxSuggestionsMultiplier: blob.MaxSuggestionsMultiplier,
			MaxBoost:                 blob.MaxBoost,
		}, nil
	case "attribute":
		idxAlgo, err := resolveAlgo(cfg, regs, blob.AttributeIndexAlgo)
		if err != nil {
			return nil, fmt.Errorf("attribute_index_algo: %w", err)
		}
		f, err := resolveFalconOptional(cfg, regs, blob.Falcon)
		if err != nil {
			return nil, err
		}
		return &algo.Attribute{
			AttributeIndexAlgo:     idxAlgo,
			Falcon:                 f,
			MaxAttributeCandidates: blob.MaxAttributeCandidates,
		}, nil
	case "group":
		members := make([]algo.Member, 0, len(blob.Members))
		for _, m := range blob.Members {
			a, err := resolveAlgo(cfg, regs, m.Algo)
			if err != nil {
				return nil, fmt.Errorf("member %s: %w", m.Name, err)
			}
			members = append(members, algo.Member{
				Name: m.Name, Algo: a, Weight: m.Weight, Op: m.Op, Required: m.Required,
			})
		}
		return &algo.Group{
			Members:         members,
			TimeoutRequired: time.Duration(blob.TimeoutRequiredMs) * time.Millisecond,
			TimeoutOptional: time.Duration(blob.TimeoutOptionalMs) * time.Millisecond,
		}, nil
	case "spell_correction":
		var vocab map[string][]suggest.CompletionIndexItem
		if err := store.LoadMsgpack(blob.VocabularyFile, &vocab); err != nil {
			return nil, fmt.Errorf("vocabulary_file: %w", err)
		}
		freq := make(map[string]int, len(vocab))
		for key, items := range vocab {
			freq[key] = len(items)
		}
		delegate, err := resolveAlgo(cfg, regs, blob.DelegateAlgo)
		if err != nil {
			return nil, fmt.Errorf("delegate_algo: %w", err)
		}
		return &algo.SpellCorrection{Matcher: fuzzy.NewMatcher(freq), Delegate: delegate}, nil
	case "template_expansion":
		return &algo.TemplateExpansion{}, nil
	case "fallback":
		return &algo.Fallback{}, nil
	default:
		return nil, fmt.Errorf("unknown algo kind %q", blob.Kind)
	}
}

func resolveFalconOptional(cfg *config.Config, regs *Registries, name string) (*falcon.Falcon, error) {
	if name == "" {
		return nil, nil
	}
	params, err := cfg.FalconParams(name)
	if err != nil {
		return nil, err
	}
	return regs.Falcons.MakeShared(name, params)
}
