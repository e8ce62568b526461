package main

import (
	"core/app"
	"core/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type seedProduct struct {
	SKU         string
	Name        string
	Price       float64
	Category    string
	Description string
}

type seedInventory struct {
	Qty      int
	Reserved int
	Reorder  int
	Location string
}

var seedProducts = []seedProduct{
	// Electronics
	{"LAPTOP-001", "ProBook 15 Laptop", 899.99, "Electronics", `15.6" Full HD, Intel i7, 16GB RAM, 512GB SSD`},
	{"PHONE-001", "SmartPhone X12 Pro", 699.99, "Electronics", `6.7" AMOLED, 128GB, 5G capable`},
	{"TABLET-001", "DigiPad Air 10", 449.99, "Electronics", `10.9" display, M1 chip, 256GB`},
	{"WATCH-001", "FitWatch Ultra", 249.99, "Electronics", "GPS, heart rate, 7-day battery"},
	{"EARBUDS-001", "SoundPods Pro", 149.99, "Electronics", "Active noise cancellation, 24hr battery"},

	// Clothing
	{"TSHIRT-001", "Essential Cotton Tee", 24.99, "Clothing", "100% organic cotton, unisex fit"},
	{"JEANS-001", "Classic Slim Jeans", 59.99, "Clothing", "Stretch denim, mid-rise, slim fit"},
	{"JACKET-001", "Urban Bomber Jacket", 89.99, "Clothing", "Water-resistant, lightweight, zip-up"},
	{"SNEAKER-001", "CloudStep Runners", 119.99, "Clothing", "Memory foam sole, breathable mesh"},
	{"CAP-001", "Snapback Logo Cap", 19.99, "Clothing", "Adjustable, embroidered logo"},

	// Home & Kitchen
	{"COFFEE-001", "BrewMaster 3000", 79.99, "Home & Kitchen", "Programmable 12-cup coffee maker"},
	{"BLENDER-001", "TurboBlend Pro", 49.99, "Home & Kitchen", "1000W, 5-speed, BPA-free"},
	{"LAMP-001", "Nordic Desk Lamp", 34.99, "Home & Kitchen", "LED, dimmable, USB charging port"},
	{"PILLOW-001", "DreamCloud Memory Pillow", 29.99, "Home & Kitchen", "Cooling gel memory foam, queen size"},
	{"MUG-001", "Ceramic Travel Mug", 14.99, "Home & Kitchen", "16oz, insulated, spill-proof lid"},

	// Sports & Outdoors
	{"YOGA-001", "ProFlex Yoga Mat", 39.99, "Sports", "6mm thick, non-slip, eco-friendly"},
	{"BOTTLE-001", "HydroFlask 32oz", 29.99, "Sports", "Vacuum insulated, keeps cold 24hrs"},
	{"DUMBBELL-001", "Adjustable Dumbbell Set", 149.99, "Sports", "5-52.5 lbs, quick-change weight"},
	{"BACKPACK-001", "TrailBlazer 40L Pack", 69.99, "Sports", "Waterproof, ventilated back panel"},
	{"TENT-001", "QuickPitch 2P Tent", 129.99, "Sports", "2-person, 3-season, pop-up design"},
}

// Some levels are purposely low to trigger alerts.
var inventoryLevels = map[string]seedInventory{
	"LAPTOP-001":   {45, 3, 10, "WH-A1"},
	"PHONE-001":    {120, 8, 20, "WH-A2"},
	"TABLET-001":   {30, 2, 10, "WH-A2"},
	"WATCH-001":    {8, 0, 15, "WH-A3"}, // low stock
	"EARBUDS-001":  {200, 15, 25, "WH-A3"},
	"TSHIRT-001":   {500, 20, 50, "WH-B1"},
	"JEANS-001":    {3, 1, 10, "WH-B1"}, // low stock
	"JACKET-001":   {60, 5, 10, "WH-B2"},
	"SNEAKER-001":  {75, 0, 15, "WH-B2"},
	"CAP-001":      {150, 10, 20, "WH-B3"},
	"COFFEE-001":   {40, 2, 8, "WH-C1"},
	"BLENDER-001":  {5, 3, 10, "WH-C1"}, // low stock
	"LAMP-001":     {90, 0, 15, "WH-C2"},
	"PILLOW-001":   {0, 0, 10, "WH-C2"}, // out of stock
	"MUG-001":      {300, 25, 30, "WH-C3"},
	"YOGA-001":     {55, 0, 10, "WH-D1"},
	"BOTTLE-001":   {180, 12, 20, "WH-D1"},
	"DUMBBELL-001": {22, 0, 5, "WH-D2"},
	"BACKPACK-001": {7, 2, 10, "WH-D2"}, // low stock
	"TENT-001":     {15, 1, 5, "WH-D3"},
}

// Seeds the catalog and inventory. Idempotent: existing SKUs are skipped.
func main() {
	cfg := app.Setup()
	db := cfg.Database.DB

	created := 0
	skipped := 0

	for _, sp := range seedProducts {
		var existing model.Product
		err := db.Where("sku = ?", sp.SKU).First(&existing).Error
		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			logrus.Fatal("seed lookup failed:", err)
		}

		product := model.Product{
			SKU:         sp.SKU,
			Name:        sp.Name,
			Price:       sp.Price,
			Category:    sp.Category,
			Description: sp.Description,
			IsActive:    true,
		}
		levels := inventoryLevels[sp.SKU]
		product.Inventory = &model.Inventory{
			Quantity:          levels.Qty,
			Reserved:          levels.Reserved,
			ReorderLevel:      levels.Reorder,
			WarehouseLocation: levels.Location,
		}

		if err := db.Create(&product).Error; err != nil {
			logrus.Fatal("seed insert failed:", err)
		}
		created++
	}

	logrus.WithFields(logrus.Fields{
		"created": created,
		"skipped": skipped,
	}).Info("seed completed")
}
