package cli

import (
	"encoding/json"
	"strings"
)

// SchemaCmd outputs JSON Schema for sessnotes output types
type SchemaCmd struct {
	Type []string `short:"t" help:"Output types to include (split,trim,inject,summary,error,session_file,session_content,doctor). Default: all"`
}

var schemaTypes = []string{"split", "trim", "inject", "summary", "error", "session_file", "session_content", "doctor"}

// Run executes the schema command
func (c *SchemaCmd) Run(globals *Globals) error {
	schemas := map[string]interface{}{
		"split":           splitSchema(),
		"trim":            trimSchema(),
		"inject":          injectSchema(),
		"summary":         summarySchema(),
		"error":           errorSchema(),
		"session_file":    sessionFileSchema(),
		"session_content": sessionContentSchema(),
		"doctor":          doctorSchema(),
	}

	typesToOutput := c.Type
	if len(typesToOutput) == 0 {
		typesToOutput = schemaTypes
	}

	output := map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "sessnotes Output Schemas",
		"description": "JSON Schema definitions for all sessnotes NDJSON output types",
		"definitions": map[string]interface{}{},
	}

	defs := output["definitions"].(map[string]interface{})
	for _, t := range typesToOutput {
		t = strings.ToLower(strings.TrimSpace(t))
		if schema, ok := schemas[t]; ok {
			defs[t] = schema
		}
	}

	encoder := json.NewEncoder(globals.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func constProp(value string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "const": value}
}

func timestampProp() map[string]interface{} {
	return map[string]interface{}{"type": "string", "format": "date-time", "description": "ISO8601 time the event was written"}
}

func object(title, description string, properties map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       title,
		"description": description,
		"properties":  properties,
		"required":    required,
	}
}

func splitSchema() map[string]interface{} {
	return object("Split", "A session file created by the splitter", map[string]interface{}{
		"type":          constProp("split"),
		"schemaVersion": prop("integer", "Record schema version"),
		"run_id":        prop("string", "Identifier shared by every record of one invocation"),
		"session":       prop("integer", "1-based position of the header in the source document"),
		"date":          prop("string", "YYYY-MM-DD found in the header, if any"),
		"path":          prop("string", "Path of the created file"),
		"header":        prop("string", "Header line"),
		"dated":         prop("boolean", "False when the header carried no date"),
		"timestamp":     timestampProp(),
	}, "type", "schemaVersion", "session", "path", "timestamp")
}

func trimSchema() map[string]interface{} {
	return object("Trim", "A session file cut down to its own section", map[string]interface{}{
		"type":          constProp("trim"),
		"schemaVersion": prop("integer", "Record schema version"),
		"run_id":        prop("string", "Identifier shared by every record of one invocation"),
		"session":       prop("integer", "Session number"),
		"path":          prop("string", "Path of the trimmed file"),
		"bytes_before":  prop("integer", "Size before trimming"),
		"bytes_after":   prop("integer", "Size after trimming"),
		"headers":       prop("integer", "Top-level headers found before trimming"),
		"unchanged":     prop("boolean", "True when the file was already trimmed"),
		"timestamp":     timestampProp(),
	}, "type", "schemaVersion", "session", "path", "timestamp")
}

func injectSchema() map[string]interface{} {
	return object("Inject", "Summaries prepended to a session file, or the reason none were", map[string]interface{}{
		"type":          constProp("inject"),
		"schemaVersion": prop("integer", "Record schema version"),
		"run_id":        prop("string", "Identifier shared by every record of one invocation"),
		"session":       prop("integer", "Session number"),
		"path":          prop("string", "Path of the session file"),
		"injected":      prop("boolean", "True when the file was changed"),
		"reason": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"no_summaries", "already_injected"},
			"description": "Why nothing was injected",
		},
		"selections": map[string]interface{}{
			"type":        "array",
			"description": "Summaries injected, oldest first",
			"items": object("Selection", "One injected summary", map[string]interface{}{
				"session": prop("integer", "Session the summary describes"),
				"level":   map[string]interface{}{"type": "integer", "enum": []int{1, 2, 3}, "description": "1 = coarsest, 3 = finest"},
			}, "session", "level"),
		},
		"timestamp": timestampProp(),
	}, "type", "schemaVersion", "session", "path", "injected", "timestamp")
}

func summarySchema() map[string]interface{} {
	return object("Summary", "Totals written when a stage or the full run completes", map[string]interface{}{
		"type":          constProp("summary"),
		"schemaVersion": prop("integer", "Record schema version"),
		"run_id":        prop("string", "Identifier shared by every record of one invocation"),
		"stage": map[string]interface{}{
			"type": "string",
			"enum": []string{"split", "trim", "inject", "run"},
		},
		"split":     prop("integer", "Files created"),
		"trimmed":   prop("integer", "Files trimmed"),
		"injected":  prop("integer", "Files that received summaries"),
		"skipped":   prop("integer", "Files left unchanged by the injector"),
		"timestamp": timestampProp(),
	}, "type", "schemaVersion", "stage", "timestamp")
}

func errorSchema() map[string]interface{} {
	return object("Error", "Error message from sessnotes", map[string]interface{}{
		"type":          constProp("error"),
		"schemaVersion": prop("integer", "Record schema version"),
		"code": map[string]interface{}{
			"type":        "string",
			"description": "Error code",
			"enum": []string{
				"NO_HEADERS",
				"SESSION_OUT_OF_RANGE",
				"INVALID_SESSION_NUMBER",
				"ALREADY_INJECTED",
				"MALFORMED_SUMMARY",
				"STAGE_REGRESSION",
				"UNKNOWN_SESSION",
				"FILE_NOT_FOUND",
				"INVALID_FLAGS",
				"INVALID_WHERE",
				"INTERRUPTED",
				"FAILED",
			},
		},
		"message": prop("string", "Human-readable error description"),
		"hint":    prop("string", "Suggested fix"),
	}, "type", "code", "message")
}

func sessionFileSchema() map[string]interface{} {
	return object("Session File", "A session file listed by status", map[string]interface{}{
		"type":          constProp("session_file"),
		"schemaVersion": prop("integer", "Record schema version"),
		"session":       prop("integer", "Session number"),
		"date":          prop("string", "YYYY-MM-DD from the header, if any"),
		"tag":           prop("string", "Filename tag"),
		"header":        prop("string", "Header line, when known"),
		"path":          prop("string", "Path of the file"),
		"stage": map[string]interface{}{
			"type": "string",
			"enum": []string{"split", "trimmed", "injected"},
		},
		"updated_at": prop("string", "Last stage change"),
		"source": map[string]interface{}{
			"type": "string",
			"enum": []string{"manifest", "discovery"},
		},
	}, "type", "session", "path", "stage")
}

func sessionContentSchema() map[string]interface{} {
	return object("Session Content", "A session file printed by show", map[string]interface{}{
		"type":          constProp("session_content"),
		"schemaVersion": prop("integer", "Record schema version"),
		"session":       prop("integer", "Session number"),
		"path":          prop("string", "Path of the file"),
		"stage":         prop("string", "Stage the file has reached"),
		"content":       prop("string", "File content"),
	}, "type", "session", "path", "content")
}

func doctorSchema() map[string]interface{} {
	return object("Doctor Report", "Result of sessnotes doctor", map[string]interface{}{
		"type":      constProp("doctor"),
		"timestamp": timestampProp(),
		"checks": map[string]interface{}{
			"type": "array",
			"items": object("Check", "One doctor check", map[string]interface{}{
				"name": prop("string", "Check name"),
				"status": map[string]interface{}{
					"type": "string",
					"enum": []string{"ok", "warning", "error"},
				},
				"message": prop("string", "Outcome"),
				"details": prop("string", "Extra detail, such as line numbers"),
			}, "name", "status", "message"),
		},
		"all_passed":    prop("boolean", "True when no check reported an error"),
		"error_count":   prop("integer", "Checks with status error"),
		"warning_count": prop("integer", "Checks with status warning"),
	}, "type", "checks", "all_passed")
}
