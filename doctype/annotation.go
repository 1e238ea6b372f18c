package doctype

import "strings"

// Annotation renders the atom as annotation text. With a nil strategy map
// ("dump mode") every name renders unchanged. With a non-nil map, names whose
// strategy keeps the dotted path render in full; every other name (including
// names absent from the map) renders as its last path segment. The Ellipsis
// literal always renders unchanged.
func (a *TypeAtom) Annotation(strategies map[string]ImportStrategy) string {
	var b strings.Builder
	a.writeAnnotation(&b, strategies)
	return b.String()
}

func (a *TypeAtom) writeAnnotation(b *strings.Builder, strategies map[string]ImportStrategy) {
	b.WriteString(renderName(a.Name, strategies))
	// The synthetic unnamed node keeps its brackets even with no args.
	if len(a.Args) > 0 || a.Name == "" {
		writeArgList(b, a.Args, strategies)
	}
}

func writeArgList(b *strings.Builder, args []TypeArg, strategies map[string]ImportStrategy) {
	b.WriteByte('[')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := arg.(type) {
		case *TypeAtom:
			v.writeAnnotation(b, strategies)
		case RawList:
			writeArgList(b, v, strategies)
		}
	}
	b.WriteByte(']')
}

func renderName(name string, strategies map[string]ImportStrategy) string {
	if strategies == nil || name == Ellipsis {
		return name
	}
	if strategy, ok := strategies[name]; ok && strategy.KeepsDottedPath() {
		return name
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// Annotation renders the definition's type atom as annotation text.
func (d *TypeDef) Annotation(strategies map[string]ImportStrategy) string {
	return d.Atom.Annotation(strategies)
}

// SplitSplat separates the leading * or ** marker from an argument name.
func SplitSplat(name string) (splat, bare string) {
	i := 0
	for i < len(name) && i < 2 && name[i] == '*' {
		i++
	}
	return name[:i], name[i:]
}

// SignatureAnnotation renders the signature as "(T1, T2, ...) -> R".
// Splat markers prefix their argument's annotation. When args are absent or
// not fully typed the argument list renders as "..."; an absent return type
// renders as None; a Yields section wraps the return annotation as
// Generator[R, None, None].
func SignatureAnnotation(sig *TypeSignature, strategies map[string]ImportStrategy) string {
	args := Ellipsis
	if sig.ArgTypes != nil && sig.ArgTypes.IsFullyTyped() {
		parts := make([]string, 0, len(sig.ArgTypes.Args))
		for _, entry := range sig.ArgTypes.Args {
			splat, _ := SplitSplat(entry.Name)
			parts = append(parts, splat+entry.Type.Annotation(strategies))
		}
		args = strings.Join(parts, ", ")
	}

	returns := NoneType
	if sig.ReturnType != nil && sig.ReturnType.TypeDef != nil {
		returns = sig.ReturnType.TypeDef.Annotation(strategies)
		if sig.ReturnType.Kind == SectionYields {
			returns = GeneratorName + "[" + returns + ", None, None]"
		}
	}

	return "(" + args + ") -> " + returns
}

// TypeComment renders the signature as a mypy py2 type comment.
func TypeComment(sig *TypeSignature, strategies map[string]ImportStrategy) string {
	return "# type: " + SignatureAnnotation(sig, strategies)
}
