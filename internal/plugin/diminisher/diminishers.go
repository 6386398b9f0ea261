package diminisher

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/core/version"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

// LegacyDataStandardVersions is the data standard range the legacy patches apply to.
const LegacyDataStandardVersions = version.V2

// DescriptorIdentityTechnologyVersions is the technology range in which
// descriptor ids are assigned by the API instead of the database.
const DescriptorIdentityTechnologyVersions = "<3.1.0"

// gradingPeriodReferencers are the tables whose grading period reference
// carried the unified school column under its plain name in 2.x.
var gradingPeriodReferencers = []string{"GradebookEntry", "ReportCard"}

// ModifyCascadingDeletesDefinitionsDiminisher: deleting an assessment category
// descriptor must not remove its Descriptor row in 2.x.
func ModifyCascadingDeletesDefinitionsDiminisher(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "ModifyCascadingDeletesDefinitionsDiminisher"
	if !enhancer.DataStandardVersionSatisfies(metaEd, LegacyDataStandardVersions) {
		return enhancer.Ok(name)
	}
	ModifyCascade(coreTable(metaEd, "AssessmentCategoryDescriptor"), relational.DescriptorTableName, CascadeDelete, false)
	return enhancer.Ok(name)
}

// ModifyCascadingUpdatesDefinitionsDiminisher: section enrollments followed
// section key changes in 2.x.
func ModifyCascadingUpdatesDefinitionsDiminisher(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "ModifyCascadingUpdatesDefinitionsDiminisher"
	if !enhancer.DataStandardVersionSatisfies(metaEd, LegacyDataStandardVersions) {
		return enhancer.Ok(name)
	}
	for _, table := range []string{"StudentSectionAssociation", "StaffSectionAssociation"} {
		ModifyCascade(coreTable(metaEd, table), "Section", CascadeUpdate, true)
	}
	return enhancer.Ok(name)
}

// RenameGradingPeriodForeignKeyColumnsDiminisher renames GradingPeriodSchoolId
// back to SchoolId on grading period references.
func RenameGradingPeriodForeignKeyColumnsDiminisher(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "RenameGradingPeriodForeignKeyColumnsDiminisher"
	if !enhancer.DataStandardVersionSatisfies(metaEd, LegacyDataStandardVersions) {
		return enhancer.Ok(name)
	}
	for _, tableName := range gradingPeriodReferencers {
		t := coreTable(metaEd, tableName)
		RenameColumn(t, "GradingPeriodSchoolId", "SchoolId")
		RenameForeignKeyColumn(t, "GradingPeriod", "SchoolId", "SchoolId", "GradingPeriodSchoolId", "SchoolId")
	}
	return enhancer.Ok(name)
}

// ModifyOrderOfGradingPeriodForeignKeyDiminisher restores the 2.x column order
// of grading period references. It only applies after the rename above.
func ModifyOrderOfGradingPeriodForeignKeyDiminisher(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "ModifyOrderOfGradingPeriodForeignKeyDiminisher"
	if !enhancer.DataStandardVersionSatisfies(metaEd, LegacyDataStandardVersions) {
		return enhancer.Ok(name)
	}
	order := []string{"GradingPeriodDescriptorId", "GradingPeriodBeginDate", "SchoolId"}
	for _, tableName := range gradingPeriodReferencers {
		ReorderForeignKeyColumns(coreTable(metaEd, tableName), "GradingPeriod", order)
	}
	return enhancer.Ok(name)
}

// RemoveStudentCohortYearColumnDiminisher: StudentCohortYear had no term in 2.x.
func RemoveStudentCohortYearColumnDiminisher(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "RemoveStudentCohortYearColumnDiminisher"
	if !enhancer.DataStandardVersionSatisfies(metaEd, LegacyDataStandardVersions) {
		return enhancer.Ok(name)
	}
	t := coreTable(metaEd, "StudentCohortYear")
	RemoveColumn(t, "TermDescriptorId")
	RemoveForeignKey(t, "TermDescriptor")
	return enhancer.Ok(name)
}

// ModifyColumnDataTypesDiminisher restores column types that changed after 2.x.
func ModifyColumnDataTypesDiminisher(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "ModifyColumnDataTypesDiminisher"
	if !enhancer.DataStandardVersionSatisfies(metaEd, LegacyDataStandardVersions) {
		return enhancer.Ok(name)
	}
	SetColumnDataType(coreTable(metaEd, "Assessment"), "MaxRawScore", relational.DataTypeInteger, "", "", "")
	performanceLevel := coreTable(metaEd, "AssessmentPerformanceLevel")
	SetColumnDataType(performanceLevel, "MinimumScore", relational.DataTypeString, "35", "", "")
	SetColumnDataType(performanceLevel, "MaximumScore", relational.DataTypeString, "35", "", "")
	return enhancer.Ok(name)
}

// ModifyDescriptorIdentityDiminisher stops the database from generating
// descriptor ids for technology versions before 3.1.
func ModifyDescriptorIdentityDiminisher(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "ModifyDescriptorIdentityDiminisher"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, DescriptorIdentityTechnologyVersions) {
		return enhancer.Ok(name)
	}
	if t := coreTable(metaEd, relational.DescriptorTableName); t != nil {
		if c, ok := t.Column(relational.DescriptorIDColumnName); ok {
			c.IsIdentityDatabaseType = false
		}
	}
	return enhancer.Ok(name)
}
