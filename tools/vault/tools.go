// Package vault implements the tools that read and modify vault files.
package vault

import (
	"context"
	"fmt"

	"github.com/Jin-Doh/mcp-obsidian/mcp"
	"github.com/Jin-Doh/mcp-obsidian/obsidian"
	tooltypes "github.com/Jin-Doh/mcp-obsidian/tools/types"
)

var patchOperations = []string{"append", "prepend", "replace"}
var patchTargetTypes = []string{"heading", "block", "frontmatter"}

// GetAllTools returns the vault tools bound to client.
func GetAllTools(client *obsidian.Client) []tooltypes.Tool {
	return []tooltypes.Tool{
		&ListFilesInVaultTool{client: client},
		&ListFilesInDirTool{client: client},
		&GetFileContentsTool{client: client},
		&BatchGetFileContentsTool{client: client},
		&AppendContentTool{client: client},
		&PatchContentTool{client: client},
	}
}

// ListFilesInVaultTool lists the vault root.
type ListFilesInVaultTool struct {
	client *obsidian.Client
}

func (t *ListFilesInVaultTool) Name() string { return "obsidian_list_files_in_vault" }
func (t *ListFilesInVaultTool) Description() string {
	return "Lists all files and directories in the root directory of your Obsidian vault."
}
func (t *ListFilesInVaultTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{Type: "object", Properties: map[string]any{}, Required: []string{}}
}
func (t *ListFilesInVaultTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	files, err := t.client.ListFilesInVault(ctx)
	if err != nil {
		return nil, err
	}
	return tooltypes.JSONResult(files)
}

// ListFilesInDirTool lists one vault directory.
type ListFilesInDirTool struct {
	client *obsidian.Client
}

func (t *ListFilesInDirTool) Name() string { return "obsidian_list_files_in_dir" }
func (t *ListFilesInDirTool) Description() string {
	return "Lists all files and directories that exist in a specific Obsidian directory."
}
func (t *ListFilesInDirTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"dirpath": map[string]any{
				"type":        "string",
				"description": "Path to list files from (relative to your vault root). Note that empty directories will not be returned.",
			},
		},
		Required: []string{"dirpath"},
	}
}
func (t *ListFilesInDirTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	dirpath, err := tooltypes.StringArg(args, "dirpath")
	if err != nil {
		return nil, err
	}
	files, err := t.client.ListFilesInDir(ctx, dirpath)
	if err != nil {
		return nil, err
	}
	return tooltypes.JSONResult(files)
}

// GetFileContentsTool reads one file.
type GetFileContentsTool struct {
	client *obsidian.Client
}

func (t *GetFileContentsTool) Name() string { return "obsidian_get_file_contents" }
func (t *GetFileContentsTool) Description() string {
	return "Return the content of a single file in your vault."
}
func (t *GetFileContentsTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"filepath": map[string]any{
				"type":        "string",
				"description": "Path to the relevant file (relative to your vault root).",
				"format":      "path",
			},
		},
		Required: []string{"filepath"},
	}
}
func (t *GetFileContentsTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	filepath, err := tooltypes.StringArg(args, "filepath")
	if err != nil {
		return nil, err
	}
	content, err := t.client.GetFileContents(ctx, filepath)
	if err != nil {
		return nil, err
	}
	return tooltypes.JSONResult(content)
}

// BatchGetFileContentsTool reads several files into one concatenated blob.
type BatchGetFileContentsTool struct {
	client *obsidian.Client
}

func (t *BatchGetFileContentsTool) Name() string { return "obsidian_batch_get_file_contents" }
func (t *BatchGetFileContentsTool) Description() string {
	return "Return the contents of multiple files in your vault, concatenated with headers."
}
func (t *BatchGetFileContentsTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"filepaths": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":        "string",
					"description": "Path to a file (relative to your vault root)",
					"format":      "path",
				},
				"description": "List of file paths to read",
			},
		},
		Required: []string{"filepaths"},
	}
}
func (t *BatchGetFileContentsTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	filepaths, err := tooltypes.StringListArg(args, "filepaths")
	if err != nil {
		return nil, err
	}
	content, err := t.client.GetBatchFileContents(ctx, filepaths)
	if err != nil {
		return nil, err
	}
	return mcp.TextResult(content), nil
}

// AppendContentTool appends markdown to a file.
type AppendContentTool struct {
	client *obsidian.Client
}

func (t *AppendContentTool) Name() string { return "obsidian_append_content" }
func (t *AppendContentTool) Description() string {
	return "Append content to a new or existing file in the vault."
}
func (t *AppendContentTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"filepath": map[string]any{
				"type":        "string",
				"description": "Path to the file (relative to vault root)",
				"format":      "path",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content to append to the file",
			},
		},
		Required: []string{"filepath", "content"},
	}
}
func (t *AppendContentTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	filepath, err := tooltypes.StringArg(args, "filepath")
	if err != nil {
		return nil, err
	}
	content, err := tooltypes.StringArg(args, "content")
	if err != nil {
		return nil, err
	}
	if err := t.client.AppendContent(ctx, filepath, content); err != nil {
		return nil, err
	}
	return mcp.TextResult(fmt.Sprintf("Successfully appended content to %s", filepath)), nil
}

// PatchContentTool inserts content relative to a heading, block reference,
// or frontmatter field.
type PatchContentTool struct {
	client *obsidian.Client
}

func (t *PatchContentTool) Name() string { return "obsidian_patch_content" }
func (t *PatchContentTool) Description() string {
	return "Insert content into an existing note relative to a heading, block reference, or frontmatter field."
}
func (t *PatchContentTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"filepath": map[string]any{
				"type":        "string",
				"description": "Path to the file (relative to vault root)",
				"format":      "path",
			},
			"operation": map[string]any{
				"type":        "string",
				"description": "Operation to perform (append, prepend, or replace)",
				"enum":        patchOperations,
			},
			"target_type": map[string]any{
				"type":        "string",
				"description": "Type of target to patch",
				"enum":        patchTargetTypes,
			},
			"target": map[string]any{
				"type":        "string",
				"description": "Target identifier (heading path, block reference, or frontmatter field)",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content to insert",
			},
		},
		Required: []string{"filepath", "operation", "target_type", "target", "content"},
	}
}
func (t *PatchContentTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	filepath, err := tooltypes.StringArg(args, "filepath")
	if err != nil {
		return nil, err
	}
	operation, err := tooltypes.EnumArg(args, "operation", patchOperations)
	if err != nil {
		return nil, err
	}
	targetType, err := tooltypes.EnumArg(args, "target_type", patchTargetTypes)
	if err != nil {
		return nil, err
	}
	target, err := tooltypes.StringArg(args, "target")
	if err != nil {
		return nil, err
	}
	content, err := tooltypes.StringArg(args, "content")
	if err != nil {
		return nil, err
	}
	if err := t.client.PatchContent(ctx, filepath, operation, targetType, target, content); err != nil {
		return nil, err
	}
	return mcp.TextResult(fmt.Sprintf("Successfully patched content in %s", filepath)), nil
}
