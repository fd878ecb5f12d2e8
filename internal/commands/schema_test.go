package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlagType(t *testing.T) {
	require.Equal(t, "integer", normalizeFlagType("int64"))
	require.Equal(t, "boolean", normalizeFlagType("bool"))
	require.Equal(t, "string", normalizeFlagType("string"))
	require.Equal(t, "string", normalizeFlagType("stringSlice"))
}

func TestTypedFlagDefault(t *testing.T) {
	require.Equal(t, true, typedFlagDefault("bool", "true"))
	require.Equal(t, 20, typedFlagDefault("int", "20"))
	require.Equal(t, "oops", typedFlagDefault("int", "oops"))
	require.Equal(t, "score", typedFlagDefault("string", "score"))
}

func TestIsRequiredFlag(t *testing.T) {
	reqByAnnotation := &pflag.Flag{Annotations: map[string][]string{cobra.BashCompOneRequiredFlag: {"true"}}}
	require.True(t, isRequiredFlag(reqByAnnotation))

	reqByUsage := &pflag.Flag{Usage: "Contact id (required)"}
	require.True(t, isRequiredFlag(reqByUsage))

	notReq := &pflag.Flag{Usage: "optional flag"}
	require.False(t, isRequiredFlag(notReq))
}

func TestParseEnumValues(t *testing.T) {
	require.Equal(t, []string{"todo", "in_progress", "done"}, parseEnumValues("Status options: todo|in_progress|done"))
	require.Equal(t, []string{"inbound", "outbound"}, parseEnumValues("Direction (inbound, outbound)"))
	require.Nil(t, parseEnumValues("Example only (e.g. foo, bar)"))
	require.Nil(t, parseEnumValues(""))
}

func TestBuildCommandSchema(t *testing.T) {
	root := &cobra.Command{Use: "missionctl"}
	root.PersistentFlags().String("agent", "", "Acting agent session key (required)")

	child := &cobra.Command{Use: "task", Short: "Task operations"}
	child.Flags().String("status", "todo", "Status options: todo|in_progress|blocked|done")
	child.Flags().String("internal", "x", "hidden")
	require.NoError(t, child.Flags().MarkHidden("internal"))
	root.AddCommand(child)

	schema := buildCommandSchema(child)
	require.Equal(t, "missionctl task", schema.Command)
	require.Equal(t, "Task operations", schema.Description)

	props := schema.ArgsSchema["properties"].(map[string]any)
	require.Contains(t, props, "agent")
	require.Contains(t, props, "status")
	require.NotContains(t, props, "internal")

	status := props["status"].(map[string]any)
	require.Equal(t, "string", status["type"])
	require.Equal(t, "todo", status["default"])
	require.Equal(t, []string{"todo", "in_progress", "blocked", "done"}, status["enum"])

	required := schema.ArgsSchema["required"].([]string)
	require.Contains(t, required, "agent")
}

func TestCollectCommandSchemasSkipsRootSchemaAndHidden(t *testing.T) {
	root := &cobra.Command{Use: "missionctl"}
	schemaCmd := &cobra.Command{Use: "schema"}
	visible := &cobra.Command{Use: "standup", Short: "Standup"}
	hidden := &cobra.Command{Use: "secret", Hidden: true}
	root.AddCommand(schemaCmd, visible, hidden)

	var out []commandArgSchema
	collectCommandSchemas(root, &out)

	require.Len(t, out, 1)
	require.Equal(t, "missionctl standup", out[0].Command)
}
