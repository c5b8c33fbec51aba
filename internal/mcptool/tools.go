package mcptool

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"docport/internal/apiclient"
)

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.getTenantTool(),
		s.configureDomainTool(),
		s.listPagesTool(),
		s.getPageTool(),
		s.createPageTool(),
		s.updatePageTool(),
		s.deletePageTool(),
	)
}

func (s *Server) getTenantTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_tenant",
		mcplib.WithDescription("Get the authenticated tenant's profile and domain configuration"),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleGetTenant}
}

func (s *Server) configureDomainTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("configure_domain",
		mcplib.WithDescription("Update the tenant's custom domain, subdomain, or subdomain password. Omitted fields are untouched; empty strings clear."),
		mcplib.WithString("custom_domain", mcplib.Description("Fully-qualified custom domain, e.g. docs.example.com")),
		mcplib.WithString("subdomain", mcplib.Description("Subdomain label under the platform parent domain")),
		mcplib.WithString("subdomain_password", mcplib.Description("Password gating the subdomain; empty removes the gate")),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleConfigureDomain}
}

func (s *Server) listPagesTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_pages",
		mcplib.WithDescription("List the tenant's documentation pages"),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleListPages}
}

func (s *Server) getPageTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_page",
		mcplib.WithDescription("Get one documentation page with its markdown content"),
		mcplib.WithString("slug", mcplib.Required(), mcplib.Description("The page slug, e.g. guides/install")),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleGetPage}
}

func (s *Server) createPageTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("create_page",
		mcplib.WithDescription("Create a documentation page"),
		mcplib.WithString("slug", mcplib.Required(), mcplib.Description("Lowercase slug, optionally nested with slashes")),
		mcplib.WithString("title", mcplib.Required(), mcplib.Description("Page title")),
		mcplib.WithString("content", mcplib.Description("Markdown content")),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleCreatePage}
}

func (s *Server) updatePageTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("update_page",
		mcplib.WithDescription("Replace a page's title and markdown content"),
		mcplib.WithString("slug", mcplib.Required(), mcplib.Description("The page slug")),
		mcplib.WithString("title", mcplib.Required(), mcplib.Description("Page title")),
		mcplib.WithString("content", mcplib.Description("Markdown content")),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleUpdatePage}
}

func (s *Server) deletePageTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("delete_page",
		mcplib.WithDescription("Delete a documentation page"),
		mcplib.WithString("slug", mcplib.Required(), mcplib.Description("The page slug")),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleDeletePage}
}

func (s *Server) handleGetTenant(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Tenant == nil {
		return mcplib.NewToolResultError("tenant client not configured"), nil
	}
	tenant, err := s.deps.Tenant.Me(ctx)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to get tenant", err), nil
	}
	return toolResultJSON(tenant)
}

func (s *Server) handleConfigureDomain(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Tenant == nil {
		return mcplib.NewToolResultError("tenant client not configured"), nil
	}
	args := req.GetArguments()
	update := apiclient.DomainUpdate{
		CustomDomain:      optString(args, "custom_domain"),
		Subdomain:         optString(args, "subdomain"),
		SubdomainPassword: optString(args, "subdomain_password"),
	}
	tenant, err := s.deps.Tenant.ConfigureDomain(ctx, update)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to configure domain", err), nil
	}
	return toolResultJSON(tenant)
}

func (s *Server) handleListPages(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Pages == nil {
		return mcplib.NewToolResultError("pages client not configured"), nil
	}
	pages, err := s.deps.Pages.ListPages(ctx)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to list pages", err), nil
	}
	return toolResultJSON(pages)
}

func (s *Server) handleGetPage(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Pages == nil {
		return mcplib.NewToolResultError("pages client not configured"), nil
	}
	slug, ok := req.GetArguments()["slug"].(string)
	if !ok || slug == "" {
		return mcplib.NewToolResultError("slug is required"), nil
	}
	page, err := s.deps.Pages.GetPage(ctx, slug)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to get page "+slug, err), nil
	}
	return toolResultJSON(page)
}

func (s *Server) handleCreatePage(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Pages == nil {
		return mcplib.NewToolResultError("pages client not configured"), nil
	}
	args := req.GetArguments()
	slug, _ := args["slug"].(string)
	title, _ := args["title"].(string)
	content, _ := args["content"].(string)
	if slug == "" || title == "" {
		return mcplib.NewToolResultError("slug and title are required"), nil
	}
	page, err := s.deps.Pages.CreatePage(ctx, slug, title, content)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to create page "+slug, err), nil
	}
	return toolResultJSON(page)
}

func (s *Server) handleUpdatePage(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Pages == nil {
		return mcplib.NewToolResultError("pages client not configured"), nil
	}
	args := req.GetArguments()
	slug, _ := args["slug"].(string)
	title, _ := args["title"].(string)
	content, _ := args["content"].(string)
	if slug == "" || title == "" {
		return mcplib.NewToolResultError("slug and title are required"), nil
	}
	page, err := s.deps.Pages.UpdatePage(ctx, slug, title, content)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to update page "+slug, err), nil
	}
	return toolResultJSON(page)
}

func (s *Server) handleDeletePage(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Pages == nil {
		return mcplib.NewToolResultError("pages client not configured"), nil
	}
	slug, ok := req.GetArguments()["slug"].(string)
	if !ok || slug == "" {
		return mcplib.NewToolResultError("slug is required"), nil
	}
	if err := s.deps.Pages.DeletePage(ctx, slug); err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to delete page "+slug, err), nil
	}
	return mcplib.NewToolResultText("deleted " + slug), nil
}

func toolResultJSON(v any) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal result", err), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

func optString(args map[string]any, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}
