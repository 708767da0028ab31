package constant

// CatalogFn is the global function a Lua provider script must define.
// It returns an array of item tables.
const CatalogFn = "Catalog"

// ProviderTemplate is a Go text/template for scaffolding new Lua provider files.
const ProviderTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias source { url: string, type: string|nil, quality: string|nil }
---@alias item { title: string, url: string, id: string|nil, type: string|nil, origin: string|nil,
---              genres: string[]|string|nil, tags: string[]|string|nil, description: string|nil,
---              year: number|nil, rating: number|nil, duration: string|nil, episodes: number|nil,
---              actors: string[]|string|nil, directors: string[]|string|nil, poster: string|nil,
---              sources: source[]|nil }


----- IMPORTS -----
--- END IMPORTS ---



----- MAIN -----

--- Lists the catalog exposed by {{ .URL }}.
-- scrape.get(url) returns the page body; scrape.select(url, selector) returns matched elements.
-- @return item[] Table of items
function {{ .CatalogFn }}()
	return {}
end

--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`
