package tools

import (
	"strings"
	"testing"

	"github.com/Jin-Doh/mcp-obsidian/obsidian"
)

var expectedToolNames = []string{
	"obsidian_list_files_in_vault",
	"obsidian_list_files_in_dir",
	"obsidian_get_file_contents",
	"obsidian_batch_get_file_contents",
	"obsidian_append_content",
	"obsidian_patch_content",
	"obsidian_simple_search",
	"obsidian_complex_search",
	"obsidian_get_recent_changes",
	"obsidian_get_periodic_note",
	"obsidian_get_recent_periodic_notes",
}

func TestNewDefaultManagerRegistersFullCatalog(t *testing.T) {
	client := obsidian.NewClient(obsidian.Options{APIKey: "test-key"})
	manager, err := NewDefaultManager(client)
	if err != nil {
		t.Fatalf("NewDefaultManager failed: %v", err)
	}

	descriptors := manager.GetTools()
	if len(descriptors) != len(expectedToolNames) {
		t.Fatalf("expected %d tools, got %d", len(expectedToolNames), len(descriptors))
	}

	seen := make(map[string]bool)
	for _, descriptor := range descriptors {
		if seen[descriptor.Name] {
			t.Errorf("duplicate tool name %s", descriptor.Name)
		}
		seen[descriptor.Name] = true
	}
	for _, name := range expectedToolNames {
		if !seen[name] {
			t.Errorf("missing tool %s", name)
		}
	}
}

func TestToolDescriptorsAreWellFormed(t *testing.T) {
	client := obsidian.NewClient(obsidian.Options{APIKey: "test-key"})
	for _, tool := range GetAllTools(client) {
		name := tool.Name()
		if !strings.HasPrefix(name, "obsidian_") {
			t.Errorf("tool %s missing domain prefix", name)
		}
		if tool.Description() == "" {
			t.Errorf("tool %s has no description", name)
		}

		schema := tool.InputSchema()
		if schema.Type != "object" {
			t.Errorf("tool %s schema type %q, want object", name, schema.Type)
		}
		for _, required := range schema.Required {
			if _, ok := schema.Properties[required]; !ok {
				t.Errorf("tool %s requires %q but does not declare it", name, required)
			}
		}
	}
}

// Numeric argument validation enforces a lower bound of 1 and nothing else,
// so the schemas must not advertise bounds calls are not held to.
func TestSchemasAdvertiseOnlyEnforcedBounds(t *testing.T) {
	client := obsidian.NewClient(obsidian.Options{APIKey: "test-key"})
	for _, tool := range GetAllTools(client) {
		for propName, raw := range tool.InputSchema().Properties {
			prop, ok := raw.(map[string]any)
			if !ok {
				t.Errorf("tool %s property %s is not an object", tool.Name(), propName)
				continue
			}
			if _, ok := prop["maximum"]; ok {
				t.Errorf("tool %s property %s advertises an unenforced maximum", tool.Name(), propName)
			}
			if minimum, ok := prop["minimum"]; ok && minimum != 1 {
				t.Errorf("tool %s property %s advertises minimum %v, validation enforces 1", tool.Name(), propName, minimum)
			}
		}
	}
}
