// Package item defines the shop catalog and upgrade paths.
//
// Item IDs are stable identifiers; display names (with their emoji) are
// presentation data the client renders.
package item

// Item IDs used by game rules.
const (
	MemeBook     = "meme_book"
	Telescope    = "telescope"
	Laptop       = "laptop"
	Banner       = "banner"
	Shades       = "shades"        // +10% meme points, +10 PvP attack
	RocketPoster = "rocket_poster" // +50 meme points, +30 PvP attack
	FlatMap      = "flat_map"      // 20% debate loss save, +15 PvP defense

	AdvancedMemeBook = "advanced_meme_book"
	SpaceTelescope   = "space_telescope"
	Supercomputer    = "supercomputer"
	WarBanner        = "war_banner"
)

// CatalogItem is one purchasable shop entry.
type CatalogItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int    `json:"cost"` // followers
}

// UpgradePath maps a base item to its upgrade target.
type UpgradePath struct {
	Target string `json:"target"`
	Name   string `json:"name"`
	Cost   int    `json:"cost"`
}

// Catalog lists the shop inventory in display order.
var Catalog = []CatalogItem{
	{ID: MemeBook, Name: "Meme Book 📖", Cost: 30},
	{ID: Telescope, Name: "Telescope 🔭", Cost: 50},
	{ID: Laptop, Name: "Laptop 💻", Cost: 80},
	{ID: Banner, Name: "Banner 🚩", Cost: 40},
	{ID: Shades, Name: "Shades 🕶️", Cost: 25},
	{ID: RocketPoster, Name: "Rocket Poster 🚀", Cost: 120},
	{ID: FlatMap, Name: "Flat Map 🧭", Cost: 35},
}

// Upgrades maps base item ID → upgrade path.
var Upgrades = map[string]UpgradePath{
	MemeBook:  {Target: AdvancedMemeBook, Name: "Advanced Meme Book 📚", Cost: 60},
	Telescope: {Target: SpaceTelescope, Name: "Space Telescope 🛰️", Cost: 100},
	Laptop:    {Target: Supercomputer, Name: "Supercomputer 🖥️", Cost: 150},
	Banner:    {Target: WarBanner, Name: "War Banner 🏴", Cost: 90},
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (CatalogItem, bool) {
	for _, it := range Catalog {
		if it.ID == id {
			return it, true
		}
	}
	return CatalogItem{}, false
}

// Known reports whether id is a catalog item or an upgrade target, i.e.
// something a legitimate inventory may contain.
func Known(id string) bool {
	if _, ok := Lookup(id); ok {
		return true
	}
	for _, up := range Upgrades {
		if up.Target == id {
			return true
		}
	}
	return false
}
