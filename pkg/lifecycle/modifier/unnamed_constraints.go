package modifier

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
)

var (
	unnamedDropPrint = regexp.MustCompile(`(?m)^PRINT N'Dropping unnamed constraint on .*$`)
	unnamedDrop      = regexp.MustCompile(`(?m)^ALTER TABLE \[([^\]]+)\]\.\[([^\]]+)\] DROP CONSTRAINT ;[ \t]*\r?$`)
)

// CommentOutUnnamedDefaultConstraintDropsModifier disables the drops the generator cannot name.
type CommentOutUnnamedDefaultConstraintDropsModifier struct{}

func (*CommentOutUnnamedDefaultConstraintDropsModifier) Modify(_ context.Context, in Input) (string, bool) {
	script := unnamedDropPrint.ReplaceAllStringFunc(in.Script, commentOut)
	script = unnamedDrop.ReplaceAllStringFunc(script, commentOut)

	return script, true
}

func commentOut(line string) string {
	return "-- " + line
}

// ReplaceUnnamedDefaultConstraintDropsModifier turns each unnamed drop into a lookup of the
// generated constraint name. Drops are matched per table, in order, with the unnamed default
// constraints stored in the previous package.
type ReplaceUnnamedDefaultConstraintDropsModifier struct {
	dac    access.DacAccess
	logger access.Logger
}

// NewReplaceUnnamedDefaultConstraintDropsModifier creates a new modifier.
func NewReplaceUnnamedDefaultConstraintDropsModifier(dac access.DacAccess, logger access.Logger) *ReplaceUnnamedDefaultConstraintDropsModifier {
	return &ReplaceUnnamedDefaultConstraintDropsModifier{dac: dac, logger: logger}
}

func (m *ReplaceUnnamedDefaultConstraintDropsModifier) Modify(ctx context.Context, in Input) (string, bool) {
	if !unnamedDrop.MatchString(in.Script) {
		return in.Script, true
	}

	if in.Paths == nil || in.Paths.DeploySource.PreviousDacpacPath == "" {
		m.logger.Log(ctx, "ERROR: Cannot replace unnamed default constraint drops without a previous DACPAC.")

		return in.Script, false
	}

	constraints, errs, err := m.dac.GetDefaultConstraints(ctx, in.Paths.DeploySource.PreviousDacpacPath)
	if err != nil {
		m.logger.Log(ctx, "ERROR: Failed to read default constraints: "+err.Error())

		return in.Script, false
	}

	if len(errs) > 0 {
		for _, e := range errs {
			m.logger.Log(ctx, "ERROR: "+e)
		}

		return in.Script, false
	}

	unnamed := make(map[string][]access.DefaultConstraint)

	for _, c := range constraints {
		if c.ConstraintName != "" {
			continue
		}

		key := tableKey(c.TableSchema, c.TableName)
		unnamed[key] = append(unnamed[key], c)
	}

	var (
		missing string
		counter int
		used    = make(map[string]int)
	)

	script := unnamedDrop.ReplaceAllStringFunc(in.Script, func(line string) string {
		groups := unnamedDrop.FindStringSubmatch(line)
		key := tableKey(groups[1], groups[2])

		idx := used[key]
		if idx >= len(unnamed[key]) {
			if missing == "" {
				missing = key
			}

			return line
		}

		used[key]++
		counter++

		return dropByLookup(unnamed[key][idx], counter)
	})

	if missing != "" {
		m.logger.Log(ctx, "ERROR: No unnamed default constraint left to match a drop on "+missing+".")

		return in.Script, false
	}

	return script, true
}

func tableKey(schema, table string) string {
	return "[" + schema + "].[" + table + "]"
}

func dropByLookup(c access.DefaultConstraint, n int) string {
	table := tableKey(c.TableSchema, c.TableName)
	variable := fmt.Sprintf("@constraintName%d", n)

	var sb strings.Builder

	fmt.Fprintf(&sb, "DECLARE %s NVARCHAR(128);\n", variable)
	fmt.Fprintf(&sb, "SELECT %s = dc.[name] FROM [sys].[default_constraints] dc "+
		"INNER JOIN [sys].[columns] c ON c.[object_id] = dc.[parent_object_id] AND c.[column_id] = dc.[parent_column_id] "+
		"WHERE dc.[parent_object_id] = OBJECT_ID(N'%s') AND c.[name] = N'%s';\n",
		variable, quoteLiteral(table), quoteLiteral(c.ColumnName))
	fmt.Fprintf(&sb, "IF %s IS NOT NULL EXEC(N'ALTER TABLE %s DROP CONSTRAINT ' + QUOTENAME(%s));",
		variable, quoteLiteral(table), variable)

	return sb.String()
}

var (
	_ ScriptModifier = (*CommentOutUnnamedDefaultConstraintDropsModifier)(nil)
	_ ScriptModifier = (*ReplaceUnnamedDefaultConstraintDropsModifier)(nil)
)
