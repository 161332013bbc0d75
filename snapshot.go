package fieldmap

import (
	"context"
	"maps"
)

// SnapshotOption configures Snapshot.
type SnapshotOption func(*snapshotConfig)

type snapshotConfig struct {
	maskers map[MaskType]Masker
	rules   map[string]*maskRule
}

// WithMasker registers or replaces the masker used for mt.
func WithMasker(mt MaskType, m Masker) SnapshotOption {
	return func(c *snapshotConfig) {
		c.maskers[mt] = m
	}
}

// WithFieldMask masks every string inside the top-level field with mt.
func WithFieldMask(field string, mt MaskType) SnapshotOption {
	return func(c *snapshotConfig) {
		c.rules[field] = &maskRule{mask: mt, deep: true}
	}
}

// WithRedaction replaces the top-level field with replacement.
func WithRedaction(field, replacement string) SnapshotOption {
	return func(c *snapshotConfig) {
		c.rules[field] = &maskRule{redact: replacement, redacted: true}
	}
}

// Snapshot encodes r with b and hides sensitive fields for logging or
// debugging. Derived bindings honour `mask:"<type>"` and `redact:"<text>"`
// tags at any depth; options add rules for top-level fields.
//
// The result is for display only: it is not guaranteed to decode back into R.
func Snapshot[R any](ctx context.Context, b *Binding[R], r R, opts ...SnapshotOption) Value {
	cfg := snapshotConfig{
		maskers: builtinMaskers(),
		rules:   make(map[string]*maskRule),
	}
	if b.plan != nil {
		maps.Copy(cfg.rules, b.plan.rules)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var stats snapshotStats
	plan := &maskPlan{rules: cfg.rules}
	out := plan.apply(b.Encode(r), cfg.maskers, &stats)

	emitSnapshotCreated(ctx, b.typeName, stats.masked, stats.redacted)
	return out
}

type snapshotStats struct {
	masked   int
	redacted int
}

// maskPlan holds the masking rules of one record type, keyed by field name.
type maskPlan struct {
	rules map[string]*maskRule
}

type maskStep uint8

const (
	stepOptional maskStep = iota
	stepElements
	stepEntries
)

// maskRule describes what happens to one field. steps lead through the
// optionals, sequences and mappings wrapping the field's innermost type.
type maskRule struct {
	steps []maskStep

	mask     MaskType
	redact   string
	redacted bool
	deep     bool
	nested   *maskPlan
}

// planFor gathers the tag rules of sc and of every record reachable from it.
func planFor(sc *structConverter, memo map[*structConverter]*maskPlan) *maskPlan {
	if p, ok := memo[sc]; ok {
		return p
	}
	p := &maskPlan{rules: make(map[string]*maskRule)}
	memo[sc] = p

	for _, f := range sc.fields {
		steps, inner := unwrapContainers(f.conv)
		rule := &maskRule{
			steps:    steps,
			mask:     f.mask,
			redact:   f.redact,
			redacted: f.redacted,
		}
		if nsc, ok := inner.(*structConverter); ok {
			rule.nested = planFor(nsc, memo)
		}
		if rule.mask == "" && !rule.redacted && rule.nested == nil {
			continue
		}
		p.rules[f.name] = rule
	}
	return p
}

func unwrapContainers(dc dynConverter) ([]maskStep, dynConverter) {
	var steps []maskStep
	for {
		switch c := dc.(type) {
		case *pointerDyn:
			steps = append(steps, stepOptional)
			dc = c.elem
		case *sliceDyn:
			steps = append(steps, stepElements)
			dc = c.elem
		case *arrayDyn:
			steps = append(steps, stepElements)
			dc = c.elem
		case *mapDyn:
			steps = append(steps, stepEntries)
			dc = c.elem
		default:
			return steps, dc
		}
	}
}

func (p *maskPlan) apply(v Value, maskers map[MaskType]Masker, stats *snapshotStats) Value {
	entries, ok := v.AsMap()
	if !ok || len(p.rules) == 0 {
		return v
	}
	out := maps.Clone(entries)
	for name, rule := range p.rules {
		if e, ok := out[name]; ok {
			out[name] = rule.apply(e, rule.steps, maskers, stats)
		}
	}
	return MapValue(out)
}

func (r *maskRule) apply(v Value, steps []maskStep, maskers map[MaskType]Masker, stats *snapshotStats) Value {
	if v.IsNull() {
		return v
	}
	if len(steps) > 0 {
		switch steps[0] {
		case stepElements:
			return r.eachElement(v, steps[1:], maskers, stats)
		case stepEntries:
			return r.eachEntry(v, steps[1:], maskers, stats)
		default:
			return r.apply(v, steps[1:], maskers, stats)
		}
	}

	switch {
	case r.redacted:
		stats.redacted++
		return StringValue(r.redact)
	case r.mask != "":
		if s, ok := v.AsString(); ok {
			if m, ok := maskers[r.mask]; ok {
				stats.masked++
				return StringValue(m.Mask(s))
			}
			return v
		}
		if r.deep {
			switch v.Kind() {
			case KindArray:
				return r.eachElement(v, nil, maskers, stats)
			case KindMap:
				return r.eachEntry(v, nil, maskers, stats)
			}
		}
	case r.nested != nil:
		return r.nested.apply(v, maskers, stats)
	}
	return v
}

func (r *maskRule) eachElement(v Value, rest []maskStep, maskers map[MaskType]Masker, stats *snapshotStats) Value {
	arr, ok := v.AsArray()
	if !ok {
		return v
	}
	out := make([]Value, len(arr))
	for i, e := range arr {
		out[i] = r.apply(e, rest, maskers, stats)
	}
	return ArrayValue(out...)
}

func (r *maskRule) eachEntry(v Value, rest []maskStep, maskers map[MaskType]Masker, stats *snapshotStats) Value {
	entries, ok := v.AsMap()
	if !ok {
		return v
	}
	out := make(map[string]Value, len(entries))
	for k, e := range entries {
		out[k] = r.apply(e, rest, maskers, stats)
	}
	return MapValue(out)
}
