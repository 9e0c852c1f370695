package mcpserver

// LayoutRules explains the plan model and editing rules to MCP clients.
const LayoutRules = `# Warehouse Layout Rules

All lengths are in feet. The plan origin is the top-left corner and Y grows
downwards.

## Outline

- The building outline is a closed polygon of at least 3 corners, in either
  winding. Edge i runs from corner i to corner i+1 (the last edge closes back
  to corner 0).
- Outline edits never look at placed items. Moving or deleting corners can
  leave equipment partly or fully outside the building; move those items back
  yourself (` + "`get_plan`" + ` shows every footprint).
- An edit is refused with a notice only when it would break the outline
  itself: fewer than 3 corners, a zero or negative edge length, or a notch on
  a short edge. The plan is unchanged.
- ` + "`add_indent`" + ` pushes a notch (at most 8 ft wide) 4 ft into the building at
  the middle of an edge; ` + "`add_bump`" + ` pushes it out. Edges shorter than 8 ft
  cannot take either.

## Equipment

- ` + "`place_item`" + ` drops a catalog entry with its top-left corner at (x, y). The
  drop is refused when the footprint leaves the outline or overlaps another
  item. Touching a wall or another item is allowed.
- ` + "`move_item`" + ` repositions an item without checking the rules above.
- Rotation swaps width and height in quarter turns.

## Doors and windows

- Wall entries (doors, windows) must be dropped within 3 ft of a wall and not
  at its very ends. They snap to the nearest edge and are stored as
  (edge index, position 0.1..0.9).
- Openings keep their edge index when the outline changes. Plans report
  openings whose edge no longer matches as ` + "`staleOpenings`" + `.
- Openings and wall height are not part of undo history.
`
