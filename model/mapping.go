package model

// ToMap converts the model to plain maps and slices for templates and
// serializers. False flags and absent references are left out, so an
// opaque reference carries only name and fullName.
func (m *Model) ToMap() map[string]any {
	namespaces := make([]any, 0, len(m.Namespaces))
	for _, ns := range m.Namespaces {
		namespaces = append(namespaces, ns.ToMap())
	}
	return map[string]any{"namespace": namespaces}
}

func (ns *Namespace) ToMap() map[string]any {
	dts := make([]any, 0, len(ns.DataTypes))
	for _, dt := range ns.DataTypes {
		dts = append(dts, dt.ToMap())
	}
	return map[string]any{
		"name":     ns.Name,
		"datatype": dts,
	}
}

func (dt *DataType) ToMap() map[string]any {
	extends := []any{}
	if dt.SuperType != nil {
		extends = append(extends, dt.SuperType.ToMap())
	}
	implements := make([]any, 0, len(dt.Interfaces))
	for _, ref := range dt.Interfaces {
		implements = append(implements, ref.ToMap())
	}
	props := make([]any, 0, len(dt.Properties))
	for _, p := range dt.Properties {
		props = append(props, map[string]any{
			"name": p.Name,
			"type": p.Type.ToMap(),
		})
	}
	out := map[string]any{
		"name":        dt.Name,
		"fullName":    dt.FullName,
		"isInterface": dt.IsInterface,
		"isAbstract":  dt.IsAbstract,
		"isEnum":      dt.IsEnum,
		"extends":     extends,
		"implements":  implements,
		"property":    props,
	}
	if dt.IsEnum {
		constants := make([]any, 0, len(dt.Constants))
		for _, c := range dt.Constants {
			constants = append(constants, c)
		}
		out["constant"] = constants
	}
	return out
}

func (r *TypeRef) ToMap() map[string]any {
	out := map[string]any{
		"name":     r.Name,
		"fullName": r.FullName,
	}
	flag := func(key string, v bool) {
		if v {
			out[key] = true
		}
	}
	flag("isCollection", r.IsCollection)
	flag("isOrdered", r.IsOrdered)
	flag("isEnum", r.IsEnum)
	flag("isReference", r.IsReference)
	flag("isSamePackage", r.IsSamePackage)
	if r.ElementType != nil {
		out["elementType"] = r.ElementType.ToMap()
	}
	return out
}
