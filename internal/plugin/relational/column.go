package relational

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

// ColumnEnhancer fills every main table with its columns and foreign keys and
// creates child tables for collections and commons.
//
// Identity columns of a referenced entity are derived from the model rather
// than from its table, so tables can be built in any order.
func ColumnEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "ColumnEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, TargetVersions) {
		return enhancer.Ok(name)
	}

	b := &columnBuilder{metaEd: metaEd, enhancerName: name}
	for _, ns := range metaEd.Namespaces() {
		for _, entity := range ns.Entity.TopLevelEntities(mainTableTypes...) {
			data := TablesOf(entity)
			if data.MainTable == nil || data.columnsBuilt {
				continue
			}
			b.buildEntityTables(entity, data)
			data.columnsBuilt = true
		}
	}
	return enhancer.Ok(name)
}

type columnBuilder struct {
	metaEd       *model.MetaEdEnvironment
	enhancerName string
}

// childWork is a property waiting for its child table until the owning table's
// primary key is complete.
type childWork struct {
	property *model.EntityProperty
	prefix   string
}

func (b *columnBuilder) buildEntityTables(entity *model.TopLevelEntity, data *EntityTables) {
	t := data.MainTable
	childBase := t.Name

	switch entity.Type {
	case model.ModelTypeEnumeration, model.ModelTypeMapTypeEnumeration:
		addTypeTableColumns(t, entity.MetaEdName)
		return
	case model.ModelTypeSchoolYearEnumeration:
		addSchoolYearColumns(t)
		return
	case model.ModelTypeDescriptor:
		b.addDescriptorColumns(t, entity)
	case model.ModelTypeDomainEntitySubclass, model.ModelTypeAssociationSubclass:
		if entity.BaseEntity != nil {
			b.addBaseKey(t, entity.BaseEntity, SourceReference{IsPartOfIdentity: true, IsSubclassRelationship: true})
		}
	case model.ModelTypeDomainEntityExtension, model.ModelTypeAssociationExtension:
		childBase = entity.BaseEntityName
		if entity.BaseEntity != nil {
			b.addBaseKey(t, entity.BaseEntity, SourceReference{IsPartOfIdentity: true, IsExtensionRelationship: true})
		}
	}

	var pending []childWork
	b.addColumns(t, entity.Properties, "", false, true, &pending)
	for _, w := range pending {
		b.buildChildTable(data, t, w.property, w.prefix, childBase)
	}
}

// addBaseKey makes the base entity's identity the table's primary key and
// references the base table with it.
func (b *columnBuilder) addBaseKey(t *Table, base *model.TopLevelEntity, source SourceReference) {
	fk := &ForeignKey{
		ForeignTableSchema: SchemaName(base.Namespace),
		ForeignTableName:   MainTableName(base),
		WithDeleteCascade:  true,
		WithUpdateCascade:  base.AllowPrimaryKeyUpdates,
		SourceReference:    source,
	}
	for _, c := range b.identityColumns(base, map[*model.TopLevelEntity]bool{}) {
		c.IsPartOfPrimaryKey = true
		c.IsNullable = false
		added := t.AddColumn(c)
		fk.ColumnPairs = append(fk.ColumnPairs, ColumnNamePair{ParentTableColumnName: added.Name, ForeignTableColumnName: c.Name})
	}
	if len(fk.ColumnPairs) > 0 {
		t.AddForeignKey(fk)
	}
}

func (b *columnBuilder) addDescriptorColumns(t *Table, descriptor *model.TopLevelEntity) {
	id := t.AddColumn(&Column{
		Name:               descriptorIDColumnName(descriptor.MetaEdName),
		DataType:           DataTypeInteger,
		IsPartOfPrimaryKey: true,
	})
	if core, ok := descriptor.Namespace.CoreNamespace(); ok {
		t.AddForeignKey(&ForeignKey{
			ForeignTableSchema: SchemaName(core),
			ForeignTableName:   DescriptorTableName,
			ColumnPairs:        []ColumnNamePair{{ParentTableColumnName: id.Name, ForeignTableColumnName: DescriptorIDColumnName}},
			WithDeleteCascade:  true,
			SourceReference:    SourceReference{IsPartOfIdentity: true, IsSubclassRelationship: true},
		})
	}

	mapType := descriptor.MapTypeEnumeration
	if model.IsNoEntity(mapType) {
		return
	}
	typeID := t.AddColumn(&Column{
		Name:       typeIDColumnName(mapType.MetaEdName),
		DataType:   DataTypeInteger,
		IsNullable: !descriptor.IsMapTypeRequired,
	})
	t.AddForeignKey(&ForeignKey{
		ForeignTableSchema: SchemaName(mapType.Namespace),
		ForeignTableName:   MainTableName(mapType),
		ColumnPairs:        []ColumnNamePair{{ParentTableColumnName: typeID.Name, ForeignTableColumnName: typeID.Name}},
		SourceReference: SourceReference{
			IsRequired:              descriptor.IsMapTypeRequired,
			IsOptional:              !descriptor.IsMapTypeRequired,
			IsSyntheticRelationship: true,
		},
	})
}

func addTypeTableColumns(t *Table, enumerationName string) {
	t.AddColumn(&Column{Name: typeIDColumnName(enumerationName), DataType: DataTypeInteger, IsPartOfPrimaryKey: true, IsIdentityDatabaseType: true})
	t.AddColumn(&Column{Name: "CodeValue", DataType: DataTypeString, Length: "50"})
	t.AddColumn(&Column{Name: "Description", DataType: DataTypeString, Length: "1024"})
	t.AddColumn(&Column{Name: "ShortDescription", DataType: DataTypeString, Length: "450"})
}

func addSchoolYearColumns(t *Table) {
	t.AddColumn(&Column{Name: SchoolYearColumnName, DataType: DataTypeShort, IsPartOfPrimaryKey: true})
	t.AddColumn(&Column{Name: "SchoolYearDescription", DataType: DataTypeString, Length: "50"})
	t.AddColumn(&Column{Name: "CurrentSchoolYear", DataType: DataTypeBoolean})
}

// addColumns adds the columns of properties to t. Collections and commons are
// queued on pending. Inline commons and choices contribute their own properties
// under the property's role name.
func (b *columnBuilder) addColumns(t *Table, properties []*model.EntityProperty, prefix string,
	forceNullable, identityAllowed bool, pending *[]childWork) {
	for _, p := range properties {
		if p.IsCollection() || p.Type == model.PropertyTypeCommon {
			*pending = append(*pending, childWork{property: p, prefix: prefix})
			continue
		}

		isKey := identityAllowed && p.IsPartOfIdentity
		nullable := !isKey && (forceNullable || !(p.IsRequired || p.IsPartOfIdentity))

		if p.Type == model.PropertyTypeInlineCommon || p.Type == model.PropertyTypeChoice {
			if inline, ok := p.ReferencedTopLevelEntity(); ok {
				b.addColumns(t, inline.Properties, prefix+rolePrefix(p), nullable, isKey, pending)
			}
			continue
		}

		columns, fk := b.propertyColumns(p, map[*model.TopLevelEntity]bool{})
		for _, c := range columns {
			c.Name = prefix + c.Name
			c.IsPartOfPrimaryKey = isKey
			c.IsNullable = nullable
			t.AddColumn(c)
		}
		if fk != nil {
			for i := range fk.ColumnPairs {
				fk.ColumnPairs[i].ParentTableColumnName = prefix + fk.ColumnPairs[i].ParentTableColumnName
			}
			t.AddForeignKey(fk)
		}
	}
}

// buildChildTable creates the table holding a collection or common property.
// Its key is the owning table's key plus, for collections, the item's identity.
func (b *columnBuilder) buildChildTable(data *EntityTables, parent *Table, p *model.EntityProperty, prefix, childBase string) {
	child := NewTable(parent.Schema, childBase+prefix+childTableSuffix(p))
	child.Description = p.Documentation
	child.ParentEntity = parent.ParentEntity
	child.ParentTable = parent
	child.SourceProperty = p
	child.IsExtensionTable = parent.IsExtensionTable
	child.IsRequiredCollectionTable = p.IsRequiredCollection

	toParent := &ForeignKey{
		ForeignTableSchema: parent.Schema,
		ForeignTableName:   parent.Name,
		WithDeleteCascade:  true,
		WithUpdateCascade:  parent.ParentEntity != nil && parent.ParentEntity.AllowPrimaryKeyUpdates,
		SourceReference:    sourceReferenceOf(p),
	}
	for _, key := range parent.PrimaryKeys() {
		c := key.Copy()
		c.IsIdentityDatabaseType = false
		c.IsNullable = false
		added := child.AddColumn(c)
		toParent.ColumnPairs = append(toParent.ColumnPairs,
			ColumnNamePair{ParentTableColumnName: added.Name, ForeignTableColumnName: key.Name})
	}
	child.AddForeignKey(toParent)

	if err := TablesFor(parent.ParentEntity.Namespace).Register(child); err != nil {
		b.metaEd.AddValidationFailure(model.ValidationFailure{
			ValidatorName: b.enhancerName,
			Category:      model.CategoryError,
			Message:       err.Error(),
			SourceMap:     p.SourceMap.MetaEdName,
		})
		return
	}
	data.Tables = append(data.Tables, child)

	var pending []childWork
	switch p.Type {
	case model.PropertyTypeCommon, model.PropertyTypeInlineCommon, model.PropertyTypeChoice:
		if item, ok := p.ReferencedTopLevelEntity(); ok {
			b.addColumns(child, commonProperties(item), "", false, p.IsCollection(), &pending)
		}
	default:
		columns, fk := b.propertyColumns(p, map[*model.TopLevelEntity]bool{})
		for _, c := range columns {
			c.IsPartOfPrimaryKey = true
			c.IsNullable = false
			child.AddColumn(c)
		}
		if fk != nil {
			child.AddForeignKey(fk)
		}
	}
	for _, w := range pending {
		b.buildChildTable(data, child, w.property, w.prefix, child.Name)
	}
}

// commonProperties returns a common's properties, inherited ones first.
func commonProperties(common *model.TopLevelEntity) []*model.EntityProperty {
	if common.BaseEntity == nil {
		return common.Properties
	}
	inherited := commonProperties(common.BaseEntity)
	result := make([]*model.EntityProperty, 0, len(inherited)+len(common.Properties))
	result = append(result, inherited...)
	return append(result, common.Properties...)
}

// propertyColumns returns the columns a single-valued property contributes,
// named with the property's role but no outer prefix, and the foreign key they
// form, if any. Columns come back without key or nullability flags.
func (b *columnBuilder) propertyColumns(p *model.EntityProperty, visiting map[*model.TopLevelEntity]bool) ([]*Column, *ForeignKey) {
	switch p.Type {
	case model.PropertyTypeDomainEntity, model.PropertyTypeAssociation:
		referenced, ok := p.ReferencedTopLevelEntity()
		if !ok {
			return nil, nil
		}
		fk := b.foreignKeyTo(p, referenced, MainTableName(referenced))
		fk.WithUpdateCascade = referenced.AllowPrimaryKeyUpdates
		columns := b.identityColumns(referenced, visiting)
		for _, c := range columns {
			foreignName := c.Name
			c.Name = rolePrefix(p) + foreignName
			c.Description = p.Documentation
			c.SourceProperty = p
			fk.ColumnPairs = append(fk.ColumnPairs, ColumnNamePair{ParentTableColumnName: c.Name, ForeignTableColumnName: foreignName})
		}
		return columns, fk

	case model.PropertyTypeDescriptor:
		c := &Column{Name: rolePrefix(p) + descriptorIDColumnName(p.MetaEdName), DataType: DataTypeInteger,
			Description: p.Documentation, SourceProperty: p}
		referenced, ok := p.ReferencedTopLevelEntity()
		if !ok {
			return []*Column{c}, nil
		}
		fk := b.foreignKeyTo(p, referenced, MainTableName(referenced))
		fk.ColumnPairs = []ColumnNamePair{{ParentTableColumnName: c.Name, ForeignTableColumnName: descriptorIDColumnName(referenced.MetaEdName)}}
		return []*Column{c}, fk

	case model.PropertyTypeEnumeration:
		c := &Column{Name: rolePrefix(p) + typeIDColumnName(p.MetaEdName), DataType: DataTypeInteger,
			Description: p.Documentation, SourceProperty: p}
		referenced, ok := p.ReferencedTopLevelEntity()
		if !ok {
			return []*Column{c}, nil
		}
		fk := b.foreignKeyTo(p, referenced, MainTableName(referenced))
		fk.ColumnPairs = []ColumnNamePair{{ParentTableColumnName: c.Name, ForeignTableColumnName: typeIDColumnName(referenced.MetaEdName)}}
		return []*Column{c}, fk

	case model.PropertyTypeSchoolYearEnumeration:
		c := &Column{Name: simpleColumnName(p), DataType: DataTypeShort, Description: p.Documentation, SourceProperty: p}
		referenced, ok := p.ReferencedTopLevelEntity()
		if !ok {
			return []*Column{c}, nil
		}
		fk := b.foreignKeyTo(p, referenced, SchoolYearTableName)
		fk.ColumnPairs = []ColumnNamePair{{ParentTableColumnName: c.Name, ForeignTableColumnName: SchoolYearColumnName}}
		return []*Column{c}, fk

	case model.PropertyTypeCommon, model.PropertyTypeInlineCommon, model.PropertyTypeChoice:
		return nil, nil
	}
	return []*Column{simpleColumn(p)}, nil
}

func (b *columnBuilder) foreignKeyTo(p *model.EntityProperty, referenced *model.TopLevelEntity, tableName string) *ForeignKey {
	return &ForeignKey{
		ForeignTableSchema: SchemaName(referenced.Namespace),
		ForeignTableName:   tableName,
		SourceReference:    sourceReferenceOf(p),
	}
}

// identityColumns returns fresh copies of the primary key columns the main
// table of entity will have. Identity reference cycles are cut.
func (b *columnBuilder) identityColumns(entity *model.TopLevelEntity, visiting map[*model.TopLevelEntity]bool) []*Column {
	if visiting[entity] {
		return nil
	}
	visiting[entity] = true
	defer delete(visiting, entity)

	switch entity.Type {
	case model.ModelTypeDescriptor:
		return []*Column{{Name: descriptorIDColumnName(entity.MetaEdName), DataType: DataTypeInteger}}
	case model.ModelTypeEnumeration, model.ModelTypeMapTypeEnumeration:
		return []*Column{{Name: typeIDColumnName(entity.MetaEdName), DataType: DataTypeInteger}}
	case model.ModelTypeSchoolYearEnumeration:
		return []*Column{{Name: SchoolYearColumnName, DataType: DataTypeShort}}
	}

	var columns []*Column
	for _, p := range entity.AllIdentityProperties() {
		columns = append(columns, b.identityPropertyColumns(p, visiting)...)
	}
	return columns
}

func (b *columnBuilder) identityPropertyColumns(p *model.EntityProperty, visiting map[*model.TopLevelEntity]bool) []*Column {
	if p.Type != model.PropertyTypeInlineCommon && p.Type != model.PropertyTypeChoice {
		columns, _ := b.propertyColumns(p, visiting)
		return columns
	}
	inline, ok := p.ReferencedTopLevelEntity()
	if !ok {
		return nil
	}
	var columns []*Column
	for _, inner := range inline.Properties {
		if !inner.IsPartOfIdentity {
			continue
		}
		for _, c := range b.identityPropertyColumns(inner, visiting) {
			c.Name = rolePrefix(p) + c.Name
			columns = append(columns, c)
		}
	}
	return columns
}

// simpleColumn maps a simple or shared property to one column.
func simpleColumn(p *model.EntityProperty) *Column {
	c := &Column{Name: simpleColumnName(p), Description: p.Documentation, SourceProperty: p}

	totalDigits, decimalPlaces, maxLength := p.TotalDigits, p.DecimalPlaces, p.MaxLength
	if shared, ok := model.AsSharedSimple(p.ReferencedEntity); ok && !shared.IsSentinel() {
		totalDigits, decimalPlaces, maxLength = shared.TotalDigits, shared.DecimalPlaces, shared.MaxLength
	}

	switch p.Type {
	case model.PropertyTypeBoolean:
		c.DataType = DataTypeBoolean
	case model.PropertyTypeCurrency:
		c.DataType = DataTypeCurrency
	case model.PropertyTypeDate:
		c.DataType = DataTypeDate
	case model.PropertyTypeDatetime:
		c.DataType = DataTypeDatetime
	case model.PropertyTypeDuration:
		c.DataType = DataTypeDuration
	case model.PropertyTypePercent:
		c.DataType = DataTypePercent
	case model.PropertyTypeTime:
		c.DataType = DataTypeTime
	case model.PropertyTypeYear:
		c.DataType = DataTypeYear
	case model.PropertyTypeInteger, model.PropertyTypeSharedInteger:
		c.DataType = DataTypeInteger
	case model.PropertyTypeShort, model.PropertyTypeSharedShort:
		c.DataType = DataTypeShort
	case model.PropertyTypeDecimal, model.PropertyTypeSharedDecimal:
		c.DataType = DataTypeDecimal
		c.Precision = totalDigits
		c.Scale = decimalPlaces
	default:
		c.DataType = DataTypeString
		c.Length = maxLength
	}
	return c
}
