package docx

// Property merging. Formatting cascades through document defaults, basedOn
// style chains and direct formatting; every layer is a bag and later layers
// win key by key. The rules here are deliberately dumb: nested bags merge
// recursively, everything else (strings, numbers, toggles, lists) is replaced
// outright.

// MergeProperties merges override on top of base and returns a new bag.
// Neither input is modified. When one side is nil the other is cloned, when
// both are nil the result is nil.
//
// A nil value in override normally means "no opinion" and leaves the base
// value alone. Passing allowNullOverride lets explicit nils clear base keys
// instead, which table property merging relies on.
func MergeProperties(base, override Properties, allowNullOverride bool) Properties {
	if base == nil && override == nil {
		return nil
	}
	if base == nil {
		return CloneProperties(override)
	}
	if override == nil {
		return CloneProperties(base)
	}

	merged := CloneProperties(base)
	for key, val := range override {
		if val == nil {
			if allowNullOverride {
				merged[key] = nil
			}
			continue
		}
		if isBag(val) && isBag(merged[key]) {
			merged[key] = MergeProperties(asBag(merged[key]), asBag(val), allowNullOverride)
			continue
		}
		merged[key] = cloneValue(val)
	}
	return merged
}

// MergeChain folds MergeProperties left to right, so later bags override
// earlier ones. Nil entries are skipped. Callers hand it layers ordered from
// lowest precedence to highest: document defaults first, then the style chain
// from root ancestor down, then direct formatting.
func MergeChain(bags ...Properties) Properties {
	var merged Properties
	for _, bag := range bags {
		if bag == nil {
			continue
		}
		if merged == nil {
			merged = CloneProperties(bag)
			continue
		}
		merged = MergeProperties(merged, bag, false)
	}
	return merged
}

// StripNulls returns a copy of props without nil-valued keys, recursing into
// nested bags. Direct formatting is run through this before merging over
// style properties: a nil there always means "not specified", never "force
// to empty".
func StripNulls(props Properties) Properties {
	if props == nil {
		return nil
	}
	stripped := make(Properties, len(props))
	for key, val := range props {
		if val == nil {
			continue
		}
		if bag := asBag(val); bag != nil {
			stripped[key] = StripNulls(bag)
			continue
		}
		stripped[key] = cloneValue(val)
	}
	return stripped
}
