package docx

// runPropsKey is the key under which resolved run formatting is attached to
// a resolved paragraph bag, mirroring how a pPr element nests its rPr.
const runPropsKey = "rPr"

// StyleResolver computes effective formatting by folding document defaults,
// basedOn inheritance chains and direct formatting into flat property bags.
// Results are cached per style id; a resolver instance is scoped to a single
// document conversion and is not meant to be shared across documents.
// Resolution never fails: unknown ids and circular chains degrade to
// whatever could be resolved, reported through the observer.
type StyleResolver struct {
	styles map[string]*Style
	list   []*Style // declaration order, for default style scans

	paraDefaults Properties
	runDefaults  Properties

	observer ResolveObserver

	styleCache map[string]*Style
	paraCache  map[string]Properties
	runCache   map[string]Properties
	tableCache map[string]Properties
}

// NewStyleResolver builds a resolver over a parsed style sheet. Styles
// without an id are skipped, duplicate ids keep the last definition. A nil
// sheet yields a resolver that only ever returns empty bags; a nil observer
// silences diagnostics.
func NewStyleResolver(sheet *StyleSheet, obs ResolveObserver) *StyleResolver {
	r := &StyleResolver{
		styles:     make(map[string]*Style),
		observer:   obs,
		styleCache: make(map[string]*Style),
		paraCache:  make(map[string]Properties),
		runCache:   make(map[string]Properties),
		tableCache: make(map[string]Properties),
	}
	if r.observer == nil {
		r.observer = NopObserver{}
	}
	if sheet != nil {
		r.paraDefaults = sheet.ParaDefaults
		r.runDefaults = sheet.RunDefaults
		for _, style := range sheet.Styles {
			if style == nil || style.ID == "" {
				continue
			}
			r.styles[style.ID] = style
			r.list = append(r.list, style)
		}
	}
	return r
}

// ResolveStyle returns the style registered under styleID, or nil when the
// id is empty or unknown. Only the lookup is cached here, not any resolved
// properties.
func (r *StyleResolver) ResolveStyle(styleID string) *Style {
	if styleID == "" {
		return nil
	}
	if style, ok := r.styleCache[styleID]; ok {
		return style
	}
	style := r.styles[styleID]
	r.styleCache[styleID] = style
	return style
}

// DefaultParagraphStyle returns the first paragraph style carrying the
// default flag, or nil when the sheet declares none.
func (r *StyleResolver) DefaultParagraphStyle() *Style {
	for _, style := range r.list {
		if style.Type == StyleTypeParagraph && style.Default {
			return style
		}
	}
	return nil
}

// ResolveParagraphProperties returns the effective paragraph bag for a style
// id: document paragraph defaults, overlaid by every chain ancestor from the
// root down to the style itself. When the chain contributes run formatting
// it is attached under "rPr", so a paragraph style can supply defaults for
// runs that carry no style of their own. An empty id yields the document
// defaults, an unknown one degrades to the same. The caller owns the
// returned bag - it is a fresh clone on every call.
func (r *StyleResolver) ResolveParagraphProperties(styleID string) Properties {
	if styleID == "" {
		return ensureBag(CloneProperties(r.paraDefaults))
	}
	if cached, ok := r.paraCache[styleID]; ok {
		return CloneProperties(cached)
	}

	chain := r.styleChain(styleID)
	bags := make([]Properties, 0, len(chain)+1)
	bags = append(bags, r.paraDefaults)
	for i := len(chain) - 1; i >= 0; i-- {
		bags = append(bags, chain[i].ParaProps)
	}
	props := ensureBag(MergeChain(bags...))

	if runProps := r.runChainProperties(styleID, chain); len(runProps) > 0 {
		props[runPropsKey] = runProps
	}

	r.paraCache[styleID] = props
	return CloneProperties(props)
}

// ResolveRunProperties returns the effective run bag for a style id:
// document run defaults overlaid by the chain's run formatting. Paragraph
// styles are walked the same way as character styles since they may carry
// run defaults too. An empty or unknown id yields the document run defaults.
func (r *StyleResolver) ResolveRunProperties(styleID string) Properties {
	if styleID == "" {
		return ensureBag(CloneProperties(r.runDefaults))
	}
	if cached, ok := r.runCache[styleID]; ok {
		return CloneProperties(cached)
	}
	return r.runChainProperties(styleID, r.styleChain(styleID))
}

// runChainProperties folds run formatting along an already-walked chain and
// caches the result under styleID.
func (r *StyleResolver) runChainProperties(styleID string, chain []*Style) Properties {
	if cached, ok := r.runCache[styleID]; ok {
		return CloneProperties(cached)
	}
	bags := make([]Properties, 0, len(chain)+1)
	bags = append(bags, r.runDefaults)
	for i := len(chain) - 1; i >= 0; i-- {
		bags = append(bags, chain[i].RunProps)
	}
	props := ensureBag(MergeChain(bags...))
	r.runCache[styleID] = props
	return CloneProperties(props)
}

// ResolveTableProperties returns the effective table bag for a style id.
// Table formatting has no document-level default, so an empty or unknown id
// yields an empty bag.
func (r *StyleResolver) ResolveTableProperties(styleID string) Properties {
	if styleID == "" {
		return Properties{}
	}
	if cached, ok := r.tableCache[styleID]; ok {
		return CloneProperties(cached)
	}
	chain := r.styleChain(styleID)
	bags := make([]Properties, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		bags = append(bags, chain[i].TableProps)
	}
	props := ensureBag(MergeChain(bags...))
	r.tableCache[styleID] = props
	return CloneProperties(props)
}

// ResolveParagraphStyleFull resolves a paragraph style and hands back the
// paragraph bag and the nested run bag separately, with the run bag removed
// from the paragraph bag.
func (r *StyleResolver) ResolveParagraphStyleFull(styleID string) (Properties, Properties) {
	props := r.ResolveParagraphProperties(styleID)
	var runProps Properties
	if nested := props.Bag(runPropsKey); nested != nil {
		runProps = nested
		delete(props, runPropsKey)
	}
	return props, runProps
}

// MergeWithDirect overlays direct formatting onto resolved style properties.
// Nil values in the direct bag are stripped first - inline formatting can
// only add or replace, never erase. A nil direct bag returns a clone of the
// style bag unchanged.
func (r *StyleResolver) MergeWithDirect(styleProps, directProps Properties) Properties {
	if directProps == nil {
		return CloneProperties(styleProps)
	}
	return MergeProperties(styleProps, StripNulls(directProps), false)
}

// ResolveWithDirect resolves paragraph properties for a style id and merges
// the element's direct formatting on top.
func (r *StyleResolver) ResolveWithDirect(styleID string, directProps Properties) Properties {
	return r.MergeWithDirect(r.ResolveParagraphProperties(styleID), directProps)
}

// ClearCache drops all resolved results. The style table itself stays.
func (r *StyleResolver) ClearCache() {
	r.styleCache = make(map[string]*Style)
	r.paraCache = make(map[string]Properties)
	r.runCache = make(map[string]Properties)
	r.tableCache = make(map[string]Properties)
}

// styleChain walks basedOn links starting at styleID and returns the styles
// in child-to-parent order. Walking is iterative with a visited set so
// malformed inputs cannot recurse or loop: a revisited id truncates the
// chain, a dangling basedOn stops it, and both are reported. Consumers
// iterate the result backwards to merge root-first.
func (r *StyleResolver) styleChain(styleID string) []*Style {
	var chain []*Style
	visited := make(map[string]bool)
	for id := styleID; id != ""; {
		if visited[id] {
			r.observer.StyleCycle(id)
			break
		}
		style, ok := r.styles[id]
		if !ok {
			if len(chain) == 0 {
				r.observer.UnknownStyle(id)
			} else {
				r.observer.MissingBasedOn(chain[len(chain)-1].ID, id)
			}
			break
		}
		visited[id] = true
		chain = append(chain, style)
		id = style.BasedOn
	}
	return chain
}

func ensureBag(props Properties) Properties {
	if props == nil {
		return Properties{}
	}
	return props
}
