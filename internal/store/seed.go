package store

import (
	"context"
	"fmt"

	"github.com/ebarkhatov/kbkeeper/models"
)

// builtinTopics is the starter knowledge base loaded into an empty local
// cache so the application is usable offline on first run. Order matters:
// the slice is inserted top to bottom with ascending sort_order, so the
// first entry is the first topic shown.
var builtinTopics = []models.Topic{
	{
		ID:       1,
		Title:    "Commissioning a new dosing unit",
		Category: models.CategoryMachines,
		Keywords: []string{"commissioning", "dosing unit", "setup", "first start"},
		Content: "<p>Before the first start, verify that all supply lines are " +
			"connected and purged. Run the self test from the service menu and " +
			"confirm that every valve reports closed. Calibrate the flow sensors " +
			"against a reference scale before releasing the unit to production.</p>",
		Author: "admin",
		Date:   "2024-01-15",
	},
	{
		ID:       2,
		Title:    "Recipe scaling for small batches",
		Category: models.CategoryDosing,
		Keywords: []string{"recipe", "scaling", "batch size", "tolerance"},
		Content: "<p>When a batch falls below 20% of the nominal size, component " +
			"tolerances must be tightened manually. Scale each component by the " +
			"batch factor and round toward the metering resolution of the " +
			"assigned scale. Components below the minimum dosable quantity " +
			"should be premixed.</p>",
		Author: "admin",
		Date:   "2024-01-18",
	},
	{
		ID:       3,
		Title:    "Weekly maintenance checklist",
		Category: models.CategoryMaintenance,
		Keywords: []string{"maintenance", "checklist", "weekly", "inspection"},
		Content: "<p>Inspect the discharge valves for residue buildup and clean " +
			"the seals. Check the pneumatic pressure at the manifold, grease the " +
			"agitator bearings, and verify that the dust extraction filter " +
			"differential pressure is within limits. Log every step in the " +
			"maintenance journal.</p>",
		Author: "admin",
		Date:   "2024-01-22",
	},
	{
		ID:       4,
		Title:    "Error E-214: scale signal unstable",
		Category: models.CategoryErrors,
		Keywords: []string{"E-214", "scale", "signal", "vibration", "troubleshooting"},
		Content: "<p>Error E-214 indicates that the weight signal did not settle " +
			"within the configured stabilization window. Common causes are " +
			"vibration from nearby equipment, drafts over an open hopper, or a " +
			"damaged load cell cable. Check the mechanical mounting first, then " +
			"inspect the cable for pinch points before replacing the cell.</p>",
		Author: "admin",
		Date:   "2024-02-03",
	},
	{
		ID:       5,
		Title:    "Changing a product with allergen cleanout",
		Category: models.CategoryProcedures,
		Keywords: []string{"product change", "allergen", "cleanout", "procedure"},
		Content: "<p>A product change involving allergens requires a full wet " +
			"cleanout of all contact surfaces. Empty and flush every hopper, " +
			"run the cleaning recipe, and swab the discharge points for " +
			"verification. The line may only be released after the swab results " +
			"are documented and countersigned.</p>",
		Author: "admin",
		Date:   "2024-02-10",
	},
	{
		ID:       6,
		Title:    "Error E-108: dosing valve timeout",
		Category: models.CategoryErrors,
		Keywords: []string{"E-108", "valve", "timeout", "pneumatics"},
		Content: "<p>Error E-108 is raised when a dosing valve does not confirm " +
			"its end position within the timeout. Verify the pneumatic supply " +
			"pressure, check the position sensor alignment, and cycle the valve " +
			"manually from the service menu. A valve that sticks mid-travel " +
			"usually points to product buildup on the seat.</p>",
		Author: "admin",
		Date:   "2024-02-17",
	},
}

// SeedTopics loads the built-in topics into an empty cache. A cache that
// already holds topics is left untouched, so user edits and deletions are
// never overwritten on restart.
func SeedTopics(ctx context.Context, topics TopicRepository) error {
	count, err := topics.CountTopics(ctx)
	if err != nil {
		return fmt.Errorf("count topics before seeding: %w", err)
	}
	if count > 0 {
		return nil
	}

	// CreateTopic prepends, so inserting back to front keeps the declared
	// ordering.
	for i := len(builtinTopics) - 1; i >= 0; i-- {
		if _, err := topics.CreateTopic(ctx, builtinTopics[i]); err != nil {
			return fmt.Errorf("seed topic %d: %w", builtinTopics[i].ID, err)
		}
	}

	return nil
}
