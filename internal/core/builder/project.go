// Package builder populates a MetaEdEnvironment from MetaEd model files.
// It stands at the parser boundary: it produces namespaces, entity repositories,
// the property index and build-phase validation failures.
package builder

import (
	"fmt"
	"os"

	"github.com/metaed-lang/metaed/internal/core/model"
)

// ProjectSpec describes one MetaEd project, which compiles into one namespace.
type ProjectSpec struct {
	Namespace          string
	ProjectName        string
	ProjectVersion     string
	ProjectExtension   string
	ProjectDescription string
	// Path is a model file or a directory searched recursively for model files.
	Path string
}

// InitializeNamespaces creates one namespace per project. A project with an
// extension name compiles into an extension namespace, which depends on every
// core namespace declared before it, closest first. Core namespaces have no
// dependencies.
func InitializeNamespaces(metaEd *model.MetaEdEnvironment, projects []ProjectSpec) ([]*model.Namespace, error) {
	namespaces := make([]*model.Namespace, 0, len(projects))
	for _, project := range projects {
		if _, exists := metaEd.Namespace[project.Namespace]; exists {
			return nil, fmt.Errorf("duplicate namespace %q", project.Namespace)
		}
		ns := model.NewNamespace(project.Namespace)
		ns.ProjectName = project.ProjectName
		ns.ProjectVersion = project.ProjectVersion
		ns.ProjectExtension = project.ProjectExtension
		ns.ProjectDescription = project.ProjectDescription
		ns.IsExtension = project.ProjectExtension != ""

		if ns.IsExtension {
			for i := len(namespaces) - 1; i >= 0; i-- {
				if namespaces[i].IsExtension {
					continue
				}
				if err := ns.AddDependency(namespaces[i]); err != nil {
					return nil, err
				}
			}
		}
		metaEd.AddNamespace(ns)
		namespaces = append(namespaces, ns)
	}
	return namespaces, nil
}

// Build initializes the namespaces of projects and loads each project's model files.
// Model problems become validation failures; only I/O problems are returned as errors.
func Build(metaEd *model.MetaEdEnvironment, projects []ProjectSpec) error {
	namespaces, err := InitializeNamespaces(metaEd, projects)
	if err != nil {
		return err
	}
	for i, project := range projects {
		files, err := FindModelFiles(project.Path)
		if err != nil {
			return fmt.Errorf("project %s: %w", project.Namespace, err)
		}
		if err := LoadNamespace(metaEd, namespaces[i], files...); err != nil {
			return err
		}
	}
	return nil
}

// LoadNamespace reads and loads each file into ns in the order given.
func LoadNamespace(metaEd *model.MetaEdEnvironment, ns *model.Namespace, files ...string) error {
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		Load(metaEd, ns, file, data)
	}
	return nil
}
