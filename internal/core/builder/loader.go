package builder

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/metaed-lang/metaed/internal/core/model"
)

// Validator names recorded on build-phase failures.
const (
	FailureModelFileSyntax       = "ModelFileSyntax"
	FailureUnknownEntityKind     = "UnknownEntityKind"
	FailureUnknownPropertyKind   = "UnknownPropertyKind"
	FailureMissingName           = "MissingName"
	FailureDuplicateEntityName   = "DuplicateEntityName"
	FailurePropertyCardinality   = "PropertyMustHaveOneCardinality"
	FailureUnknownDomainItemKind = "UnknownDomainItemKind"
)

// entityKinds maps the top-level keys of a model file to model types.
var entityKinds = map[string]model.ModelType{
	"domainEntities":         model.ModelTypeDomainEntity,
	"domainEntitySubclasses": model.ModelTypeDomainEntitySubclass,
	"domainEntityExtensions": model.ModelTypeDomainEntityExtension,
	"associations":           model.ModelTypeAssociation,
	"associationSubclasses":  model.ModelTypeAssociationSubclass,
	"associationExtensions":  model.ModelTypeAssociationExtension,
	"commons":                model.ModelTypeCommon,
	"commonSubclasses":       model.ModelTypeCommonSubclass,
	"commonExtensions":       model.ModelTypeCommonExtension,
	"inlineCommons":          model.ModelTypeInlineCommon,
	"choices":                model.ModelTypeChoice,
	"descriptors":            model.ModelTypeDescriptor,
	"enumerations":           model.ModelTypeEnumeration,
	"schoolYearEnumerations": model.ModelTypeSchoolYearEnumeration,
	"sharedDecimals":         model.ModelTypeSharedDecimal,
	"sharedIntegers":         model.ModelTypeSharedInteger,
	"sharedShorts":           model.ModelTypeSharedInteger,
	"sharedStrings":          model.ModelTypeSharedString,
	"domains":                model.ModelTypeDomain,
	"subdomains":             model.ModelTypeSubdomain,
	"interchanges":           model.ModelTypeInterchange,
	"interchangeExtensions":  model.ModelTypeInterchangeExtension,
}

type entityDoc struct {
	Name                   string `yaml:"name"`
	Documentation          string `yaml:"documentation"`
	MetaEdID               string `yaml:"metaEdId"`
	IsDeprecated           bool   `yaml:"isDeprecated"`
	DeprecationReason      string `yaml:"deprecationReason"`
	IsAbstract             bool   `yaml:"isAbstract"`
	AllowPrimaryKeyUpdates bool   `yaml:"allowPrimaryKeyUpdates"`
	BaseEntity             string `yaml:"baseEntity"`

	Items   []itemDoc   `yaml:"items"`
	MapType *mapTypeDoc `yaml:"mapType"`

	MinLength     string `yaml:"minLength"`
	MaxLength     string `yaml:"maxLength"`
	MinValue      string `yaml:"minValue"`
	MaxValue      string `yaml:"maxValue"`
	TotalDigits   string `yaml:"totalDigits"`
	DecimalPlaces string `yaml:"decimalPlaces"`

	Parent            string       `yaml:"parent"`
	Entities          []elementDoc `yaml:"entities"`
	Elements          []elementDoc `yaml:"elements"`
	IdentityTemplates []elementDoc `yaml:"identityTemplates"`
}

type itemDoc struct {
	ShortDescription string `yaml:"shortDescription"`
	Documentation    string `yaml:"documentation"`
	MetaEdID         string `yaml:"metaEdId"`
}

type mapTypeDoc struct {
	Required bool      `yaml:"required"`
	Items    []itemDoc `yaml:"items"`
}

type elementDoc struct {
	Kind      string `yaml:"kind"`
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
}

type propertyDoc struct {
	Kind          string `yaml:"kind"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	Namespace     string `yaml:"namespace"`
	Documentation string `yaml:"documentation"`
	MetaEdID      string `yaml:"metaEdId"`
	RoleName      string `yaml:"roleName"`
	ShortenTo     string `yaml:"shortenTo"`

	Identity           bool `yaml:"identity"`
	Required           bool `yaml:"required"`
	Optional           bool `yaml:"optional"`
	Collection         bool `yaml:"collection"`
	RequiredCollection bool `yaml:"requiredCollection"`
	OptionalCollection bool `yaml:"optionalCollection"`
	Queryable          bool `yaml:"queryable"`
	Deprecated         bool `yaml:"deprecated"`

	MergeDirectives []mergeDoc `yaml:"mergeDirectives"`

	MinLength     string `yaml:"minLength"`
	MaxLength     string `yaml:"maxLength"`
	MinValue      string `yaml:"minValue"`
	MaxValue      string `yaml:"maxValue"`
	TotalDigits   string `yaml:"totalDigits"`
	DecimalPlaces string `yaml:"decimalPlaces"`
}

type mergeDoc struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

type loader struct {
	metaEd *model.MetaEdEnvironment
	ns     *model.Namespace
	file   string
}

// Load decodes one model file into ns. Problems are recorded on metaEd as
// validation failures and loading continues with the next element.
func Load(metaEd *model.MetaEdEnvironment, ns *model.Namespace, file string, data []byte) {
	l := &loader{metaEd: metaEd, ns: ns, file: file}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		l.fail(FailureModelFileSyntax, err.Error(), nil)
		return
	}
	if len(root.Content) == 0 {
		return
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		l.fail(FailureModelFileSyntax, "model file must be a mapping of entity kinds", doc)
		return
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		kind, ok := entityKinds[key.Value]
		if !ok {
			l.fail(FailureUnknownEntityKind, fmt.Sprintf("unknown entity kind %q", key.Value), key)
			continue
		}
		if value.Kind != yaml.SequenceNode {
			l.fail(FailureModelFileSyntax, fmt.Sprintf("%s must be a list", key.Value), value)
			continue
		}
		for _, item := range value.Content {
			l.loadEntity(key.Value, kind, item)
		}
	}
}

func (l *loader) loadEntity(key string, kind model.ModelType, node *yaml.Node) {
	var doc entityDoc
	if err := node.Decode(&doc); err != nil {
		l.fail(FailureModelFileSyntax, err.Error(), node)
		return
	}

	switch {
	case kind.IsSharedSimple():
		l.loadSharedSimple(key, kind, doc, node)
	case kind == model.ModelTypeDomain || kind == model.ModelTypeSubdomain:
		l.loadDomain(kind, doc, node)
	case kind == model.ModelTypeInterchange || kind == model.ModelTypeInterchangeExtension:
		l.loadInterchange(kind, doc, node)
	default:
		l.loadTopLevelEntity(kind, doc, node)
	}
}

func (l *loader) loadTopLevelEntity(kind model.ModelType, doc entityDoc, node *yaml.Node) {
	entity := model.NewTopLevelEntity(kind)

	name := doc.Name
	if kind.IsExtension() || kind.IsSubclass() {
		baseRef := doc.BaseEntity
		if baseRef == "" && kind.IsExtension() {
			baseRef = doc.Name
		}
		entity.BaseEntityNamespaceName, entity.BaseEntityName = l.qualify(baseRef)
		entity.EntitySourceMap.BaseEntityName = l.sourceMapOf(node, "baseEntity")
		if kind.IsExtension() {
			name = entity.BaseEntityName
		}
	}
	if name == "" {
		l.fail(FailureMissingName, fmt.Sprintf("%s is missing a name", kind), node)
		return
	}
	if l.isDuplicate(kind, name, node) {
		return
	}

	entity.MetaEdName = name
	entity.Documentation = doc.Documentation
	entity.MetaEdID = doc.MetaEdID
	entity.IsDeprecated = doc.IsDeprecated
	entity.DeprecationReason = doc.DeprecationReason
	entity.IsAbstract = doc.IsAbstract
	entity.AllowPrimaryKeyUpdates = doc.AllowPrimaryKeyUpdates
	entity.SourceMap.Type = sourceMap(node)
	entity.SourceMap.MetaEdName = l.sourceMapOf(node, "name")
	entity.SourceMap.Documentation = l.sourceMapOf(node, "documentation")
	entity.SourceMap.MetaEdID = l.sourceMapOf(node, "metaEdId")
	entity.EntitySourceMap.IsAbstract = l.sourceMapOf(node, "isAbstract")
	entity.EntitySourceMap.AllowPrimaryKeyUpdates = l.sourceMapOf(node, "allowPrimaryKeyUpdates")

	for _, item := range doc.Items {
		entity.EnumerationItems = append(entity.EnumerationItems, &model.EnumerationItem{
			ShortDescription:  item.ShortDescription,
			Documentation:     item.Documentation,
			MetaEdID:          item.MetaEdID,
			TypeHumanizedName: humanize(name),
		})
	}

	l.ns.AddEntity(entity)

	if doc.MapType != nil && kind == model.ModelTypeDescriptor {
		l.loadMapType(entity, doc.MapType, node)
	}

	properties := findKey(node, "properties")
	if properties == nil {
		return
	}
	if properties.Kind != yaml.SequenceNode {
		l.fail(FailureModelFileSyntax, "properties must be a list", properties)
		return
	}
	for _, pn := range properties.Content {
		l.loadProperty(entity, pn)
	}
}

func (l *loader) loadMapType(descriptor *model.TopLevelEntity, doc *mapTypeDoc, node *yaml.Node) {
	mapType := model.NewMapTypeEnumeration()
	mapType.MetaEdName = descriptor.MetaEdName
	for _, item := range doc.Items {
		mapType.EnumerationItems = append(mapType.EnumerationItems, &model.EnumerationItem{
			ShortDescription:  item.ShortDescription,
			Documentation:     item.Documentation,
			MetaEdID:          item.MetaEdID,
			TypeHumanizedName: humanize(descriptor.MetaEdName),
		})
	}
	l.ns.AddEntity(mapType)

	descriptor.MapTypeEnumeration = mapType
	descriptor.IsMapTypeRequired = doc.Required
	descriptor.IsMapTypeOptional = !doc.Required
	descriptor.EntitySourceMap.MapTypeEnumeration = l.sourceMapOf(node, "mapType")
}

func (l *loader) loadProperty(entity *model.TopLevelEntity, node *yaml.Node) {
	var doc propertyDoc
	if err := node.Decode(&doc); err != nil {
		l.fail(FailureModelFileSyntax, err.Error(), node)
		return
	}

	pt := model.PropertyType(doc.Kind)
	if !pt.IsValid() {
		l.fail(FailureUnknownPropertyKind, fmt.Sprintf("unknown property kind %q on %s", doc.Kind, entity.MetaEdName), node)
		return
	}
	if doc.Name == "" {
		l.fail(FailureMissingName, fmt.Sprintf("%s property on %s is missing a name", pt, entity.MetaEdName), node)
		return
	}

	// "collection" combines with required or optional.
	if doc.Collection {
		if doc.Required {
			doc.Required, doc.RequiredCollection = false, true
		} else {
			doc.Optional, doc.OptionalCollection = false, true
		}
	}

	p := model.NewEntityProperty(pt)
	p.MetaEdName = doc.Name
	p.ReferencedType = doc.Type
	p.Documentation = doc.Documentation
	p.MetaEdID = doc.MetaEdID
	p.RoleName = doc.RoleName
	p.ShortenTo = doc.ShortenTo
	p.IsPartOfIdentity = doc.Identity
	p.IsRequired = doc.Required
	p.IsOptional = doc.Optional
	p.IsRequiredCollection = doc.RequiredCollection
	p.IsOptionalCollection = doc.OptionalCollection
	p.IsQueryableField = doc.Queryable
	p.IsDeprecated = doc.Deprecated
	p.MinLength = doc.MinLength
	p.MaxLength = doc.MaxLength
	p.MinValue = doc.MinValue
	p.MaxValue = doc.MaxValue
	p.TotalDigits = doc.TotalDigits
	p.DecimalPlaces = doc.DecimalPlaces

	p.ReferencedNamespaceName = doc.Namespace
	if p.ReferencedNamespaceName == "" {
		p.ReferencedNamespaceName = l.ns.NamespaceName
	}

	p.SourceMap.Type = l.sourceMapOf(node, "kind")
	p.SourceMap.MetaEdName = l.sourceMapOf(node, "name")
	p.SourceMap.MetaEdID = l.sourceMapOf(node, "metaEdId")
	p.SourceMap.Documentation = l.sourceMapOf(node, "documentation")
	p.SourceMap.ReferencedNamespaceName = l.sourceMapOf(node, "namespace")
	p.SourceMap.RoleName = l.sourceMapOf(node, "roleName")
	p.SourceMap.ShortenTo = l.sourceMapOf(node, "shortenTo")
	p.SourceMap.IsPartOfIdentity = l.sourceMapOf(node, "identity")
	p.SourceMap.IsRequired = l.sourceMapOf(node, "required")
	p.SourceMap.IsOptional = l.sourceMapOf(node, "optional")
	p.SourceMap.IsRequiredCollection = l.sourceMapOf(node, "requiredCollection")
	p.SourceMap.IsOptionalCollection = l.sourceMapOf(node, "optionalCollection")
	p.SourceMap.IsQueryableField = l.sourceMapOf(node, "queryable")

	if cardinalities(doc) != 1 {
		l.fail(FailurePropertyCardinality,
			fmt.Sprintf("property %s on %s must be exactly one of identity, required, optional, requiredCollection, optionalCollection",
				doc.Name, entity.MetaEdName), node)
	}

	if directives := findKey(node, "mergeDirectives"); directives != nil {
		for i, md := range doc.MergeDirectives {
			directive := model.NewMergeDirective(splitPath(md.Source), splitPath(md.Target))
			if i < len(directives.Content) {
				directive.SourceMap = sourceMap(directives.Content[i])
			}
			p.MergeDirectives = append(p.MergeDirectives, directive)
		}
	}

	entity.AddProperty(p)
	l.metaEd.PropertyIndex.Add(p)
}

func (l *loader) loadSharedSimple(key string, kind model.ModelType, doc entityDoc, node *yaml.Node) {
	if doc.Name == "" {
		l.fail(FailureMissingName, fmt.Sprintf("%s is missing a name", kind), node)
		return
	}
	if l.isDuplicate(kind, doc.Name, node) {
		return
	}

	var shared *model.SharedSimple
	switch {
	case key == "sharedShorts":
		shared = model.NewSharedShort()
	case kind == model.ModelTypeSharedDecimal:
		shared = model.NewSharedDecimal()
	case kind == model.ModelTypeSharedInteger:
		shared = model.NewSharedInteger()
	default:
		shared = model.NewSharedString()
	}
	shared.MetaEdName = doc.Name
	shared.Documentation = doc.Documentation
	shared.MetaEdID = doc.MetaEdID
	shared.IsDeprecated = doc.IsDeprecated
	shared.MinLength = doc.MinLength
	shared.MaxLength = doc.MaxLength
	shared.MinValue = doc.MinValue
	shared.MaxValue = doc.MaxValue
	shared.TotalDigits = doc.TotalDigits
	shared.DecimalPlaces = doc.DecimalPlaces
	shared.SourceMap.Type = sourceMap(node)
	shared.SourceMap.MetaEdName = l.sourceMapOf(node, "name")
	l.ns.AddEntity(shared)
}

func (l *loader) loadDomain(kind model.ModelType, doc entityDoc, node *yaml.Node) {
	if doc.Name == "" {
		l.fail(FailureMissingName, fmt.Sprintf("%s is missing a name", kind), node)
		return
	}
	if l.isDuplicate(kind, doc.Name, node) {
		return
	}

	var domain *model.Domain
	if kind == model.ModelTypeSubdomain {
		domain = model.NewSubdomain()
		domain.ParentEntityName = doc.Parent
	} else {
		domain = model.NewDomain()
	}
	domain.MetaEdName = doc.Name
	domain.Documentation = doc.Documentation
	domain.MetaEdID = doc.MetaEdID
	domain.SourceMap.MetaEdName = l.sourceMapOf(node, "name")

	for _, e := range doc.Entities {
		t := model.ModelType(e.Kind)
		if !t.IsTopLevelEntity() {
			l.fail(FailureUnknownDomainItemKind, fmt.Sprintf("unknown domain item kind %q in %s", e.Kind, doc.Name), node)
			continue
		}
		item := model.NewDomainItem(e.Name, t)
		item.ReferencedNamespaceName = l.namespaceOr(e.Namespace)
		domain.DomainItems = append(domain.DomainItems, item)
	}
	l.ns.AddEntity(domain)
}

func (l *loader) loadInterchange(kind model.ModelType, doc entityDoc, node *yaml.Node) {
	var interchange *model.Interchange
	name := doc.Name
	if kind == model.ModelTypeInterchangeExtension {
		interchange = model.NewInterchangeExtension()
		baseRef := doc.BaseEntity
		if baseRef == "" {
			baseRef = doc.Name
		}
		interchange.BaseEntityNamespaceName, interchange.BaseEntityName = l.qualify(baseRef)
		name = interchange.BaseEntityName
	} else {
		interchange = model.NewInterchange()
	}
	if name == "" {
		l.fail(FailureMissingName, fmt.Sprintf("%s is missing a name", kind), node)
		return
	}
	if l.isDuplicate(kind, name, node) {
		return
	}

	interchange.MetaEdName = name
	interchange.Documentation = doc.Documentation
	interchange.MetaEdID = doc.MetaEdID
	interchange.SourceMap.MetaEdName = l.sourceMapOf(node, "name")

	toItems := func(docs []elementDoc) []*model.InterchangeItem {
		items := make([]*model.InterchangeItem, 0, len(docs))
		for _, e := range docs {
			t := model.ModelType(e.Kind)
			if !t.IsTopLevelEntity() {
				l.fail(FailureUnknownDomainItemKind, fmt.Sprintf("unknown interchange item kind %q in %s", e.Kind, name), node)
				continue
			}
			item := model.NewInterchangeItem(e.Name, t)
			item.ReferencedNamespaceName = l.namespaceOr(e.Namespace)
			items = append(items, item)
		}
		return items
	}
	interchange.Elements = toItems(doc.Elements)
	interchange.IdentityTemplates = toItems(doc.IdentityTemplates)
	l.ns.AddEntity(interchange)
}

func (l *loader) isDuplicate(kind model.ModelType, name string, node *yaml.Node) bool {
	if _, exists := l.ns.Entity.Get(kind, name); !exists {
		return false
	}
	l.fail(FailureDuplicateEntityName,
		fmt.Sprintf("%s %s is already defined in namespace %s", kind, name, l.ns.NamespaceName), node)
	return true
}

func (l *loader) fail(validatorName, message string, node *yaml.Node) {
	sm := model.NoSourceMap
	if node != nil {
		sm = sourceMap(node)
	}
	f := model.ValidationFailure{
		ValidatorName: validatorName,
		Category:      model.CategoryError,
		Message:       message,
		SourceMap:     sm,
	}
	if l.file != "" {
		f.FileMap = &model.FileMap{FullPath: l.file, LineNumber: sm.Line}
	}
	l.metaEd.AddValidationFailure(f)
}

// qualify splits "Namespace.Name" and defaults the namespace to the one being loaded.
func (l *loader) qualify(ref string) (namespace, name string) {
	if i := strings.LastIndex(ref, "."); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return l.ns.NamespaceName, ref
}

func (l *loader) namespaceOr(namespace string) string {
	if namespace == "" {
		return l.ns.NamespaceName
	}
	return namespace
}

func (l *loader) sourceMapOf(node *yaml.Node, key string) model.SourceMap {
	if value := findKey(node, key); value != nil {
		return sourceMap(value)
	}
	return model.NoSourceMap
}

func sourceMap(node *yaml.Node) model.SourceMap {
	return model.SourceMap{Line: node.Line, Column: node.Column, TokenText: node.Value}
}

func findKey(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func cardinalities(doc propertyDoc) int {
	n := 0
	for _, set := range []bool{doc.Identity, doc.Required, doc.Optional, doc.RequiredCollection, doc.OptionalCollection} {
		if set {
			n++
		}
	}
	return n
}

func splitPath(path string) []string {
	if path == "" {
		return []string{}
	}
	return strings.Split(path, ".")
}

// humanize turns "GradeLevel" into "Grade Level".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
