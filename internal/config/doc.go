// Package config loads statusbox configuration.
//
// # Resolution Order
//
// The CMS base URL is resolved once at startup and handed to the widget:
//
//  1. STRAPI_URL environment variable (a .env file in the working directory
//     may supply it; variables already set win over the file)
//  2. api_url from ~/.config/statusbox/config.toml (or the -config path)
//  3. http://localhost:1337
//
// A missing config file is not an error. Every field has a default so the
// widget runs against a local development CMS with no setup.
//
// # TOML Format
//
//	api_url = "http://localhost:1337"
//	poll_seconds = 30
//	log_file = "~/.local/state/statusbox/statusbox.log"
//	log_level = "info"
//
//	[content]
//	api_url = "https://api.github.com"
//	repo = "your-username/your-repo"
//	path = "content/posts/hello-world.md"
//	branch = "main"
//	message = "Update content from backend"
//	listen = "127.0.0.1:8888"
//	schema_path = ""
//
// The [content] table is read only by content-update. Its token comes from
// GITHUB_TOKEN and is never read from the file.
//
// # Path Expansion
//
// The config path, log_file and schema_path accept "~" and relative paths;
// both are expanded to absolute paths.
package config
