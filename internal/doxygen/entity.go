package doxygen

import (
	"errors"

	"github.com/phobologic/symbolmap/internal/model"
)

// Compound is a compounddef element.
type Compound struct {
	Element
}

// Kind returns the compound kind, or "" when the attribute is absent.
func (c Compound) Kind() model.CompoundKind {
	return model.CompoundKind(c.n.attrs["kind"])
}

// Name returns the qualified compound name.
func (c Compound) Name() string {
	return c.Text("compoundname")
}

// Members returns every memberdef below the compound, in document order.
func (c Compound) Members() []Member {
	els := c.Descendants("memberdef")
	out := make([]Member, len(els))
	for i, el := range els {
		out[i] = Member{el}
	}
	return out
}

// Entity converts the element into a CompoundEntity, reading only the
// attributes its kind requires.
func (c Compound) Entity() (model.CompoundEntity, error) {
	kind, err := c.Attr("kind")
	if err != nil {
		return model.CompoundEntity{}, c.annotate(err)
	}
	ce := model.CompoundEntity{
		Kind:     model.CompoundKind(kind),
		Name:     c.Name(),
		Template: c.HasChild("templateparamlist"),
	}

	switch ce.Kind {
	case model.Namespace, model.Group:
		return ce, nil
	}

	file, ok := c.Location()
	if !ok {
		return model.CompoundEntity{}, &MissingAttributeError{Element: "compounddef", Name: ce.Name, Attribute: "location"}
	}
	ce.File = file

	if ce.Kind.ClassLike() {
		prot, err := c.Attr("prot")
		if err != nil {
			return model.CompoundEntity{}, c.annotate(err)
		}
		ce.Protection = model.Protection(prot)
	}
	return ce, nil
}

func (c Compound) annotate(err error) error {
	var me *MissingAttributeError
	if errors.As(err, &me) {
		me.Name = c.Name()
	}
	return err
}

// Member is a memberdef element.
type Member struct {
	Element
}

// Entity converts the element into a MemberEntity. Every member needs kind,
// prot and static; functions also need virt and inline.
func (m Member) Entity() (model.MemberEntity, error) {
	me := model.MemberEntity{
		Name:     m.Text("name"),
		Args:     m.Text("argsstring"),
		HasArgs:  m.HasChild("argsstring"),
		Template: m.HasChild("templateparamlist"),
	}

	attrs := []string{"kind", "prot", "static"}
	if m.n.attrs["kind"] == string(model.Function) {
		attrs = append(attrs, "virt", "inline")
	}
	values := make(map[string]string, len(attrs))
	for _, key := range attrs {
		v, ok := m.n.attrs[key]
		if !ok {
			return model.MemberEntity{}, &MissingAttributeError{Element: "memberdef", Name: me.Name, Attribute: key}
		}
		values[key] = v
	}

	me.Kind = model.MemberKind(values["kind"])
	me.Protection = model.Protection(values["prot"])
	me.Static = values["static"] == "yes"
	if me.IsFunction() {
		me.Virtuality = model.Virtuality(values["virt"])
		me.Inline = values["inline"] == "yes"
	}
	return me, nil
}
