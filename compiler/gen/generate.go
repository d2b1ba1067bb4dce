package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/linkback/linkback/compiler/load"
	"github.com/linkback/linkback/schema/rel"
)

// linkbackPkg is the import path of the resolution core.
const linkbackPkg = "github.com/linkback/linkback"

// Generator emits one accessor file per loaded schema: typed relationship
// methods wrapping the resolver, so consumer code navigates relationships
// without touching Instance values directly.
type Generator struct {
	cfg     *Config
	schemas []*load.Schema
}

// NewGenerator returns a generator for the given configuration and schemas.
func NewGenerator(cfg *Config, schemas []*load.Schema) *Generator {
	return &Generator{cfg: cfg, schemas: schemas}
}

// Generate writes the accessor files, one schema per file, in parallel.
func (g *Generator) Generate(ctx context.Context) error {
	if err := os.MkdirAll(g.cfg.OutDir, 0o755); err != nil {
		return NewGenerationError("", g.cfg.OutDir, "creating output directory", err)
	}
	grp, _ := errgroup.WithContext(ctx)
	grp.SetLimit(g.cfg.Workers)
	for _, s := range g.schemas {
		s := s
		grp.Go(func() error {
			return g.generateSchema(s)
		})
	}
	return grp.Wait()
}

// generateSchema emits <type>_rels.go for one schema.
func (g *Generator) generateSchema(s *load.Schema) error {
	if s.Name == "" {
		return NewGenerationError("", "", "schema with empty name", nil)
	}
	f := jen.NewFile(g.cfg.Package)
	f.HeaderComment("Code generated by linkbackgen. DO NOT EDIT.")
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	for _, r := range s.Relations {
		switch r.Kind {
		case rel.KindHasMany:
			g.collectionMethod(f, s.Name, r, "Many")
		case rel.KindBelongsToMany:
			g.collectionMethod(f, s.Name, r, "ManyInverse")
		case rel.KindHasOne:
			g.singleMethod(f, s.Name, r)
		case rel.KindBelongsTo:
			g.parentMethods(f, s.Name, r)
		default:
			return NewGenerationError(s.Name, "", fmt.Sprintf("relation %q has unknown kind", r.Name), nil)
		}
	}
	path := filepath.Join(g.cfg.OutDir, snake(s.Name)+"_rels.go")
	if err := f.Save(path); err != nil {
		return NewGenerationError(s.Name, path, "writing file", err)
	}
	return nil
}

// elemType returns the Go type name of the related instances.
func elemType(r *load.Relation) string {
	if r.Target != "" {
		return r.Target
	}
	switch r.Kind {
	case rel.KindHasMany, rel.KindBelongsToMany:
		return singularPascal(r.Name)
	default:
		return pascal(r.Name)
	}
}

// collectionMethod emits a []*Elem accessor delegating to the named
// resolver method (Many or ManyInverse).
func (g *Generator) collectionMethod(f *jen.File, typeName string, r *load.Relation, resolverMethod string) {
	rcv, elem, method := receiver(typeName), elemType(r), pascal(r.Name)
	f.Commentf("%s resolves the %s %q relationship.", method, r.Kind, r.Name)
	f.Func().
		Params(jen.Id(rcv).Op("*").Id(typeName)).
		Id(method).
		Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("r").Op("*").Qual(linkbackPkg, "Resolver"),
		).
		Params(jen.Index().Op("*").Id(elem), jen.Error()).
		Block(
			jen.List(jen.Id("res"), jen.Err()).Op(":=").Id("r").Dot(resolverMethod).Call(jen.Id("ctx"), jen.Id(rcv), jen.Lit(r.Name)),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Id("out").Op(":=").Make(jen.Index().Op("*").Id(elem), jen.Len(jen.Id("res"))),
			jen.For(jen.Id("i").Op(":=").Range().Id("res")).Block(
				jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id("res").Index(jen.Id("i")).Assert(jen.Op("*").Id(elem)),
				jen.If(jen.Op("!").Id("ok")).Block(
					jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
						jen.Lit(fmt.Sprintf("unexpected instance %%T for relation %q", r.Name)),
						jen.Id("res").Index(jen.Id("i")),
					)),
				),
				jen.Id("out").Index(jen.Id("i")).Op("=").Id("v"),
			),
			jen.Return(jen.Id("out"), jen.Nil()),
		)
}

// singleMethod emits a *Elem accessor delegating to Resolver.One.
func (g *Generator) singleMethod(f *jen.File, typeName string, r *load.Relation) {
	rcv, elem, method := receiver(typeName), elemType(r), pascal(r.Name)
	f.Commentf("%s resolves the has_one %q relationship. It returns nil when absent.", method, r.Name)
	f.Func().
		Params(jen.Id(rcv).Op("*").Id(typeName)).
		Id(method).
		Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("r").Op("*").Qual(linkbackPkg, "Resolver"),
		).
		Params(jen.Op("*").Id(elem), jen.Error()).
		Block(
			append([]jen.Code{
				jen.List(jen.Id("res"), jen.Err()).Op(":=").Id("r").Dot("One").Call(jen.Id("ctx"), jen.Id(rcv), jen.Lit(r.Name)),
				jen.If(jen.Err().Op("!=").Nil().Op("||").Id("res").Op("==").Nil()).Block(
					jen.Return(jen.Nil(), jen.Err()),
				),
			}, assertSingle(elem, r.Name)...)...,
		)
}

// parentMethods emits the belongs_to getter and setter.
func (g *Generator) parentMethods(f *jen.File, typeName string, r *load.Relation) {
	rcv, elem, method := receiver(typeName), elemType(r), pascal(r.Name)
	f.Commentf("%s returns the stored %q back-reference, or nil if never set.", method, r.Name)
	f.Func().
		Params(jen.Id(rcv).Op("*").Id(typeName)).
		Id(method).
		Params(jen.Id("r").Op("*").Qual(linkbackPkg, "Resolver")).
		Params(jen.Op("*").Id(elem), jen.Error()).
		Block(
			append([]jen.Code{
				jen.List(jen.Id("res"), jen.Err()).Op(":=").Id("r").Dot("Parent").Call(jen.Id(rcv), jen.Lit(r.Name)),
				jen.If(jen.Err().Op("!=").Nil().Op("||").Id("res").Op("==").Nil()).Block(
					jen.Return(jen.Nil(), jen.Err()),
				),
			}, assertSingle(elem, r.Name)...)...,
		)
	f.Commentf("Set%s stores the %q back-reference unconditionally.", method, r.Name)
	f.Func().
		Params(jen.Id(rcv).Op("*").Id(typeName)).
		Id("Set" + method).
		Params(
			jen.Id("r").Op("*").Qual(linkbackPkg, "Resolver"),
			jen.Id("v").Op("*").Id(elem),
		).
		Error().
		Block(
			jen.Return(jen.Id("r").Dot("SetParent").Call(jen.Id(rcv), jen.Lit(r.Name), jen.Id("v"))),
		)
}

// assertSingle is the shared assertion tail of single-value accessors.
func assertSingle(elem, relName string) []jen.Code {
	return []jen.Code{
		jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id("res").Assert(jen.Op("*").Id(elem)),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
				jen.Lit(fmt.Sprintf("unexpected instance %%T for relation %q", relName)),
				jen.Id("res"),
			)),
		),
		jen.Return(jen.Id("v"), jen.Nil()),
	}
}
