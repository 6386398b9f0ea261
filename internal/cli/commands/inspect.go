package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/metaed-lang/metaed/internal/cli/ui"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/odsapi"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

type inspectOptions struct {
	*rootOptions
	namespace string
	json      bool
}

// NewInspectCommand creates the inspect command
func NewInspectCommand(root *rootOptions) *cobra.Command {
	opts := &inspectOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show what the pipeline derived for a namespace",
		Long: `Compile the configured projects and print the derived artifacts of one
namespace. Without --namespace the core namespace is shown.`,
		Example: `  metaed inspect tables
  metaed inspect table Student
  metaed inspect associations --namespace Sample
  metaed inspect domain-model --json`,
	}

	cmd.PersistentFlags().StringVarP(&opts.namespace, "namespace", "n", "", "Namespace to inspect (default: the core namespace)")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Output in JSON format")

	cmd.AddCommand(&cobra.Command{
		Use:   "tables",
		Short: "List the tables of a namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, func(ns *model.Namespace) error {
				repo, _ := relational.LookupTables(ns)
				tables := repo.All()
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), tables)
				}
				renderTables(cmd.OutOrStdout(), tables, opts.noColor)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "table <name>",
		Short: "Show the columns and foreign keys of one table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, func(ns *model.Namespace) error {
				repo, _ := relational.LookupTables(ns)
				table, ok := repo.Get(args[0])
				if !ok {
					var names []string
					for _, t := range repo.All() {
						names = append(names, t.Name)
					}
					fmt.Fprint(cmd.ErrOrStderr(), ui.TableNotFoundError(ns.NamespaceName, args[0],
						ui.FindSimilar(args[0], names, nil), opts.noColor))
					return errReported
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), table)
				}
				renderTable(cmd.OutOrStdout(), table, opts.noColor)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "associations",
		Short: "List the API association definitions of a namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, func(ns *model.Namespace) error {
				data, _ := odsapi.LookupData(ns)
				associations := data.AssociationDefinitions
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), associations)
				}
				renderAssociations(cmd.OutOrStdout(), associations, opts.noColor)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "aggregates",
		Short: "List the aggregates of a namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, func(ns *model.Namespace) error {
				data, _ := odsapi.LookupData(ns)
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"aggregates":          data.Aggregates,
						"aggregateExtensions": data.AggregateExtensions,
					})
				}
				renderAggregates(cmd.OutOrStdout(), data, opts.noColor)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "domain-model",
		Short: "Print the domain model definition of a namespace as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, func(ns *model.Namespace) error {
				data, _ := odsapi.LookupData(ns)
				definition := data.DomainModelDefinition
				if definition == nil {
					fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(fmt.Sprintf(
						"No domain model for %s: the edfi-odsapi target technology version is below %s.",
						ns.NamespaceName, odsapi.TargetVersions), opts.noColor))
					return errReported
				}
				return writeJSON(cmd.OutOrStdout(), definition)
			})
		},
	})

	return cmd
}

// runInspect compiles, resolves the namespace and hands it to show. A failed
// compile is reported like build does.
func runInspect(cmd *cobra.Command, opts *inspectOptions, show func(ns *model.Namespace) error) error {
	s, err := openSession(cmd, opts.rootOptions, false, true)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	state, err := s.compile(cmd.Context())
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.BuildError(err.Error(), "", opts.noColor))
		return errReported
	}
	if state.Failed() {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning("The pipeline did not complete; output may be partial. Run 'metaed build' for details.", opts.noColor))
	}

	ns, ok := resolveNamespace(state.MetaEd, opts.namespace)
	if !ok {
		var names []string
		for _, n := range state.MetaEd.Namespaces() {
			names = append(names, n.NamespaceName)
		}
		fmt.Fprint(cmd.ErrOrStderr(), ui.NamespaceNotFoundError(opts.namespace,
			ui.FindSimilar(opts.namespace, names, nil), opts.noColor))
		return errReported
	}
	return show(ns)
}

// resolveNamespace finds name, or the first core namespace when name is empty.
func resolveNamespace(metaEd *model.MetaEdEnvironment, name string) (*model.Namespace, bool) {
	if name != "" {
		ns, ok := metaEd.Namespace[name]
		return ns, ok
	}
	for _, ns := range metaEd.Namespaces() {
		if !ns.IsExtension {
			return ns, true
		}
	}
	return nil, false
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderTables(w io.Writer, tables []*relational.Table, noColor bool) {
	t := ui.NewTable(w, []string{"Table", "Columns", "Foreign Keys", "Parent"}, &ui.TableOptions{NoColor: noColor})
	for _, table := range tables {
		t.AddRow(table.Name, strconv.Itoa(len(table.Columns)), strconv.Itoa(len(table.ForeignKeys)), table.ParentTableName())
	}
	t.Render()
}

func renderTable(w io.Writer, table *relational.Table, noColor bool) {
	ui.Header(w, table.QualifiedName(), noColor)
	kv := ui.NewKeyValueTable(w, noColor)
	kv.AddRow("Primary key", table.PrimaryKeyName)
	if parent := table.ParentTableName(); parent != "" {
		kv.AddRow("Parent", parent)
	}
	kv.Render()
	fmt.Fprintln(w)

	columns := ui.NewTable(w, []string{"Column", "Type", "PK", "Nullable"}, &ui.TableOptions{NoColor: noColor})
	for _, c := range table.Columns {
		columns.AddRow(c.Name, columnType(c), ui.YesNo(c.IsPartOfPrimaryKey), ui.YesNo(c.IsNullable))
	}
	columns.Render()

	if len(table.ForeignKeys) == 0 {
		return
	}
	fmt.Fprintln(w)
	fks := ui.NewTable(w, []string{"Foreign Key", "References", "Columns", "Cascade"}, &ui.TableOptions{NoColor: noColor})
	for _, fk := range table.ForeignKeys {
		var cascade []string
		if fk.WithDeleteCascade {
			cascade = append(cascade, "delete")
		}
		if fk.WithUpdateCascade {
			cascade = append(cascade, "update")
		}
		fks.AddRow(fk.Name, fk.ForeignTableSchema+"."+fk.ForeignTableName,
			strings.Join(fk.ParentTableColumnNames(), ", "), strings.Join(cascade, ", "))
	}
	fks.Render()
}

func columnType(c *relational.Column) string {
	switch {
	case c.Length != "":
		return fmt.Sprintf("%s(%s)", c.DataType, c.Length)
	case c.Precision != "":
		return fmt.Sprintf("%s(%s,%s)", c.DataType, c.Precision, c.Scale)
	default:
		return string(c.DataType)
	}
}

func renderAssociations(w io.Writer, associations []*odsapi.AssociationDefinition, noColor bool) {
	t := ui.NewTable(w, []string{"Association", "Primary", "Secondary", "Cardinality", "Identifying"}, &ui.TableOptions{NoColor: noColor})
	for _, a := range associations {
		t.AddRow(a.FullName.Name, a.PrimaryEntityFullName.String(), a.SecondaryEntityFullName.String(),
			string(a.Cardinality), ui.YesNo(a.IsIdentifying))
	}
	t.Render()
}

func renderAggregates(w io.Writer, data *odsapi.NamespaceData, noColor bool) {
	t := ui.NewTable(w, []string{"Aggregate", "Tables"}, &ui.TableOptions{NoColor: noColor})
	for _, a := range data.Aggregates {
		t.AddRow(a.AggregateName, entityTableNames(a.EntityTables))
	}
	for _, e := range data.AggregateExtensions {
		t.AddRow(e.FullName.String()+" (extension)", entityTableNames(e.EntityTables))
	}
	t.Render()
}

func entityTableNames(tables []odsapi.EntityTable) string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Table
	}
	return strings.Join(names, ", ")
}
