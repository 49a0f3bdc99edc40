package catalog

import "storefront-service/internal/models"

// seedProducts is the demo dataset. Prices are minor units.
func seedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Men's Casual Premium Shirt",
			Price:       1599,
			Description: "Slim-fitting casual shirt with contrast raglan long sleeves and a three-button henley placket.",
			Image:       "/mens-casual-shirt.png",
			Category:    "Fashion",
			Subcategory: "Men's Clothing",
			Rating:      4.5,
			ReviewCount: 128,
			InStock:     true,
			Variants: map[string][]string{
				"size":  {"S", "M", "L", "XL", "XXL"},
				"color": {"Blue", "White", "Black", "Gray"},
			},
		},
		{
			ID:          "2",
			Name:        "John Hardy Women's Legends Naga Gold & Silver Dragon Station Chain Bracelet",
			Price:       69500,
			Description: "From the Legends Collection, inspired by the mythical water dragon that protects the ocean's pearl.",
			Image:       "/naga-bracelet.png",
			Category:    "Jewelry",
			Subcategory: "Bracelets",
			Rating:      5.0,
			ReviewCount: 89,
			InStock:     true,
		},
		{
			ID:          "3",
			Name:        "Solid Gold Petite Micropave",
			Price:       16800,
			Description: "Satisfaction guaranteed. Return or exchange any order within 30 days.",
			Image:       "/gold-ring-jewelry.png",
			Category:    "Jewelry",
			Subcategory: "Rings",
			Rating:      4.8,
			ReviewCount: 156,
			InStock:     true,
		},
		{
			ID:          "4",
			Name:        "White Gold Plated Princess Cut Engagement Ring",
			Price:       999,
			Description: "Classic created wedding engagement solitaire ring for her.",
			Image:       "/princess-cut-ring.png",
			Category:    "Jewelry",
			Subcategory: "Rings",
			Rating:      4.2,
			ReviewCount: 203,
			InStock:     true,
		},
		{
			ID:          "5",
			Name:        "Pierced Owl Rose Gold Plated Stainless Steel Double Flared Tunnel Plug Earrings",
			Price:       1099,
			Description: "Rose gold plated double flared tunnel plug earrings, made of 316L stainless steel.",
			Image:       "/tunnel-earrings.png",
			Category:    "Jewelry",
			Subcategory: "Earrings",
			Rating:      4.3,
			ReviewCount: 67,
			InStock:     true,
		},
		{
			ID:          "6",
			Name:        "WD 2TB Elements Portable External Hard Drive",
			Price:       6400,
			Description: "USB 3.0 and USB 2.0 compatibility, fast data transfers, high capacity.",
			Image:       "/wd-elements.png",
			Category:    "Electronics",
			Subcategory: "Storage",
			Rating:      4.3,
			ReviewCount: 1247,
			InStock:     true,
		},
		{
			ID:          "7",
			Name:        "SanDisk SSD PLUS 1TB Internal SSD",
			Price:       10900,
			Description: "Easy upgrade for faster boot-up, shutdown, application load and response.",
			Image:       "/sandisk-ssd.png",
			Category:    "Electronics",
			Subcategory: "Storage",
			Rating:      4.6,
			ReviewCount: 892,
			InStock:     true,
		},
		{
			ID:          "8",
			Name:        "Silicon Power 256GB SSD 3D NAND A55 SLC Cache Performance Boost",
			Price:       10900,
			Description: "3D NAND flash for high transfer speeds and improved boot-up time.",
			Image:       "/silicon-power-ssd.png",
			Category:    "Electronics",
			Subcategory: "Storage",
			Rating:      4.4,
			ReviewCount: 445,
			InStock:     true,
		},
		{
			ID:          "9",
			Name:        "WD 4TB Gaming Drive Works with Playstation 4 Portable External Hard Drive",
			Price:       11400,
			Description: "Expand your gaming experience and play anywhere.",
			Image:       "/wd-gaming-drive.png",
			Category:    "Electronics",
			Subcategory: "Gaming",
			Rating:      4.7,
			ReviewCount: 678,
			InStock:     true,
		},
		{
			ID:          "10",
			Name:        "Acer SB220Q bi 21.5 inches Full HD IPS Ultra-Thin Monitor",
			Price:       59900,
			Description: "21.5 inch Full HD widescreen IPS display with Radeon FreeSync.",
			Image:       "/acer-monitor.png",
			Category:    "Electronics",
			Subcategory: "Monitors",
			Rating:      4.5,
			ReviewCount: 234,
			InStock:     true,
		},
		{
			ID:          "11",
			Name:        "Samsung 49-Inch CHG90 QLED Gaming Monitor",
			Price:       99999,
			Description: "Super ultrawide 32:9 curved gaming monitor with quantum dot technology.",
			Image:       "/samsung-chg90.png",
			Category:    "Electronics",
			Subcategory: "Monitors",
			Rating:      4.7,
			ReviewCount: 156,
			InStock:     false,
		},
		{
			ID:          "12",
			Name:        "BIYLACLESEN Women's 3-in-1 Snowboard Jacket Winter Coats",
			Price:       5699,
			Description: "Detachable liner fleece jacket with stand collar and zipped pockets.",
			Image:       "/snowboard-jacket.png",
			Category:    "Fashion",
			Subcategory: "Women's Clothing",
			Rating:      4.1,
			ReviewCount: 89,
			InStock:     true,
		},
	}
}
