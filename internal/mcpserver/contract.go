package mcpserver

// QuerySyntaxContract describes the filter predicates understood by the
// search tools, for LLM consumers.
const QuerySyntaxContract = `# Stashview Query Syntax

Stashview indexes two kinds of records decoded from game save files:

- **backpack** — one player backpack from the binary save. Keyed by its
  UUID. Carries an owner name, a last-access timestamp, upgrade items,
  and a slot grid.
- **container** — one placed container (chest, barrel, shulker box, ...)
  from the JSON world dump. Keyed by ` + "`<type>_<x>_<y>_<z>`" + ` with
  ` + "`:`" + ` and ` + "`/`" + ` replaced by ` + "`_`" + `, e.g.
  ` + "`minecraft_chest_10_64_-3`" + `. Carries a position, dimension,
  and a dungeon flag.

## Matching rules

- Owner, item, and container type predicates are **case-insensitive
  substring** matches: ` + "`flint`" + ` matches
  ` + "`minecraft:flint_and_steel`" + `.
- Owner also matches against the backpack UUID.
- Free-text NBT matching is **case-sensitive**, because NBT keys are
  (` + "`Count`" + ` and ` + "`count`" + ` are different keys).
- All active predicates must match (logical AND).
- Backpack-only predicates (owner, upgrade) never match containers;
  container-only predicates (type, dungeon) never match backpacks.

## Tools

- ` + "`search_stashes`" + ` — full-text search over owners, item ids,
  and flattened NBT text. Returns keys plus snippets.
- ` + "`list_stashes`" + ` — structured listing with optional kind,
  owner, and item filters.
- ` + "`get_stash`" + ` — full record JSON for one key, including every
  occupied slot with id, count, and NBT text.
`
