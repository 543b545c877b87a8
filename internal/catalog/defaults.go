package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"crossquote/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func hint(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d(s), Valid: true}
}

var euCountries = []struct{ code, name, vat, reduced string }{
	{"DE", "Germany", "0.19", "0.07"},
	{"FR", "France", "0.20", "0.055"},
	{"IT", "Italy", "0.22", "0.04"},
	{"ES", "Spain", "0.21", "0.04"},
	{"NL", "Netherlands", "0.21", "0.09"},
	{"IE", "Ireland", "0.23", "0"},
}

// hsKeywords is keyed by HS code; every phrase is stored lower-case.
var hsKeywords = map[string][]string{
	"851712": {"smartphone", "mobile phone", "cell phone", "iphone", "iphone 15", "galaxy phone", "pixel phone"},
	"847130": {"laptop", "notebook computer", "macbook", "chromebook"},
	"852872": {"television", "smart tv", "tv"},
	"851830": {"headphones", "earphones", "earbuds", "airpods", "headset"},
	"850760": {"power bank", "battery pack"},
	"852589": {"camera", "digital camera", "webcam"},
	"610910": {"t-shirt", "tshirt", "tee shirt", "tee"},
	"620342": {"trousers", "pants", "jeans", "chinos"},
	"611020": {"sweater", "hoodie", "sweatshirt", "pullover", "jumper"},
	"620443": {"dress", "evening dress"},
	"640411": {"sneakers", "trainers", "running shoes"},
	"640399": {"boots", "leather shoes", "loafers"},
	"420222": {"handbag", "tote bag", "backpack", "purse"},
	"910211": {"wristwatch", "watch"},
	"940360": {"bookshelf", "wooden table", "desk", "dresser", "cabinet"},
	"940490": {"pillow", "cushion", "duvet"},
	"691200": {"mug", "plate", "bowl", "tableware"},
	"630260": {"towel", "bath towel"},
	"490199": {"book", "paperback", "hardcover", "novel"},
	"210690": {"protein powder", "supplement", "snack"},
	"090121": {"coffee", "coffee beans"},
	"180690": {"chocolate"},
	"950300": {"toy", "puzzle", "lego", "doll", "board game"},
	"330499": {"skincare", "moisturizer", "serum", "face cream", "lipstick"},
	"330300": {"perfume", "cologne", "eau de parfum"},
	"711319": {"necklace", "ring", "bracelet", "earrings"},
	"950699": {"yoga mat", "dumbbell", "tennis racket"},
}

// Default returns the compiled-in catalog. Each call builds a fresh snapshot.
func Default() *domain.CatalogSnapshot {
	codes := []domain.HSCodeEntry{
		{Code: "851712", Description: "Telephones for cellular networks (smartphones)", Category: domain.CategoryElectronics},
		{Code: "847130", Description: "Portable automatic data processing machines (laptops)", Category: domain.CategoryElectronics},
		{Code: "852872", Description: "Television receivers, colour", Category: domain.CategoryElectronics, DutyRateHint: hint("0.14")},
		{Code: "851830", Description: "Headphones and earphones", Category: domain.CategoryElectronics},
		{Code: "850760", Description: "Lithium-ion accumulators", Category: domain.CategoryElectronics},
		{Code: "852589", Description: "Digital cameras and video camera recorders", Category: domain.CategoryElectronics},
		{Code: "8543", Description: "Electrical machines and apparatus, not elsewhere specified", Category: domain.CategoryElectronics},
		{Code: "610910", Description: "T-shirts, singlets and other vests, knitted, of cotton", Category: domain.CategoryClothing},
		{Code: "620342", Description: "Men's or boys' trousers and shorts, of cotton", Category: domain.CategoryClothing},
		{Code: "611020", Description: "Jerseys, pullovers, sweatshirts, knitted, of cotton", Category: domain.CategoryClothing},
		{Code: "620443", Description: "Women's or girls' dresses, of synthetic fibres", Category: domain.CategoryClothing},
		{Code: "6211", Description: "Track suits, ski suits and other garments", Category: domain.CategoryClothing},
		{Code: "640411", Description: "Sports footwear with outer soles of rubber and textile uppers", Category: domain.CategoryFootwear},
		{Code: "640399", Description: "Footwear with uppers of leather", Category: domain.CategoryFootwear},
		{Code: "420222", Description: "Handbags with outer surface of plastic sheeting or textile", Category: domain.CategoryAccessories},
		{Code: "4202", Description: "Trunks, suitcases, handbags, wallets and similar containers", Category: domain.CategoryAccessories},
		{Code: "910211", Description: "Wrist-watches, electrically operated", Category: domain.CategoryAccessories},
		{Code: "940360", Description: "Wooden furniture", Category: domain.CategoryFurniture},
		{Code: "9403", Description: "Other furniture and parts thereof", Category: domain.CategoryFurniture},
		{Code: "940490", Description: "Bedding articles, cushions and pillows", Category: domain.CategoryHome},
		{Code: "691200", Description: "Ceramic tableware and kitchenware", Category: domain.CategoryHome},
		{Code: "630260", Description: "Toilet and kitchen linen, of terry towelling, of cotton", Category: domain.CategoryHome},
		{Code: "490199", Description: "Printed books, brochures and similar printed matter", Category: domain.CategoryBooks, DutyRateHint: hint("0"), VATRateHint: hint("0")},
		{Code: "210690", Description: "Food preparations not elsewhere specified", Category: domain.CategoryFood},
		{Code: "090121", Description: "Coffee, roasted, not decaffeinated", Category: domain.CategoryFood, DutyRateHint: hint("0.075")},
		{Code: "180690", Description: "Chocolate and other food preparations containing cocoa", Category: domain.CategoryFood},
		{Code: "950300", Description: "Toys, puzzles and scale models", Category: domain.CategoryToys},
		{Code: "330499", Description: "Beauty, make-up and skin-care preparations", Category: domain.CategoryCosmetics},
		{Code: "330300", Description: "Perfumes and toilet waters", Category: domain.CategoryCosmetics},
		{Code: "711319", Description: "Articles of jewellery of precious metal", Category: domain.CategoryJewelry},
		{Code: "950699", Description: "Articles and equipment for sports and outdoor games", Category: domain.CategorySports},
		{Code: "9600", Description: "Miscellaneous manufactured articles", Category: domain.CategoryMiscellaneous},
	}

	var keywords []domain.KeywordEntry
	for code, words := range hsKeywords {
		for _, w := range words {
			keywords = append(keywords, domain.KeywordEntry{Keyword: w, Code: code})
		}
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Keyword != keywords[j].Keyword {
			return keywords[i].Keyword < keywords[j].Keyword
		}
		return keywords[i].Code < keywords[j].Code
	})

	categories := []domain.CategoryEntry{
		{Category: domain.CategoryElectronics, Code: "8543"},
		{Category: domain.CategoryClothing, Code: "6211"},
		{Category: domain.CategoryFootwear, Code: "640411"},
		{Category: domain.CategoryAccessories, Code: "4202"},
		{Category: domain.CategoryHome, Code: "691200"},
		{Category: domain.CategoryFurniture, Code: "9403"},
		{Category: domain.CategoryBooks, Code: "490199"},
		{Category: domain.CategoryFood, Code: "210690"},
		{Category: domain.CategoryToys, Code: "950300"},
		{Category: domain.CategoryCosmetics, Code: "330499"},
		{Category: domain.CategoryJewelry, Code: "711319"},
		{Category: domain.CategorySports, Code: "950699"},
		{Category: domain.CategoryMiscellaneous, Code: "9600"},
	}

	snap := &domain.CatalogSnapshot{
		HSCodes:       codes,
		Keywords:      keywords,
		Categories:    categories,
		Jurisdictions: defaultJurisdictions(),
		Services:      defaultServices(),
	}
	snap.Version = Fingerprint(snap)
	return snap
}

func defaultJurisdictions() []domain.Jurisdiction {
	out := make([]domain.Jurisdiction, 0, len(euCountries)+6)
	for _, c := range euCountries {
		out = append(out, domain.Jurisdiction{
			CountryCode:     c.code,
			Name:            c.name,
			Currency:        "EUR",
			TaxName:         "VAT",
			StandardVATRate: d(c.vat),
			ReducedRates: map[string]decimal.Decimal{
				domain.CategoryBooks: d(c.reduced),
				domain.CategoryFood:  d(c.reduced),
			},
			DutyFreeThreshold:  dp("150"),
			LowValueScheme:     &domain.LowValueScheme{Name: "IOSS", Threshold: d("150")},
			VATOnDutyInclusive: true,
		})
	}

	return append(out,
		domain.Jurisdiction{
			CountryCode:     "US",
			Name:            "United States",
			Currency:        "USD",
			TaxName:         "Sales Tax",
			StandardVATRate: d("0"),
			DutyRates: map[string]decimal.Decimal{
				domain.CategoryClothing: d("0.16"),
				domain.CategoryFootwear: d("0.20"),
			},
			DeMinimisDuty: dp("800"),
		},
		domain.Jurisdiction{
			CountryCode:     "GB",
			Name:            "United Kingdom",
			Currency:        "GBP",
			TaxName:         "VAT",
			StandardVATRate: d("0.20"),
			ReducedRates: map[string]decimal.Decimal{
				domain.CategoryBooks: d("0"),
				domain.CategoryFood:  d("0"),
			},
			DutyFreeThreshold:  dp("135"),
			LowValueScheme:     &domain.LowValueScheme{Name: "UK low value goods", Threshold: d("135")},
			VATOnDutyInclusive: true,
		},
		domain.Jurisdiction{
			CountryCode:        "CA",
			Name:               "Canada",
			Currency:           "CAD",
			TaxName:            "GST",
			StandardVATRate:    d("0.05"),
			DeMinimisDuty:      dp("150"),
			VATFreeThreshold:   dp("40"),
			VATOnDutyInclusive: true,
		},
		domain.Jurisdiction{
			CountryCode:     "AU",
			Name:            "Australia",
			Currency:        "AUD",
			TaxName:         "GST",
			StandardVATRate: d("0.10"),
			ReducedRates: map[string]decimal.Decimal{
				domain.CategoryFood: d("0"),
			},
			DutyFreeThreshold:  dp("1000"),
			LowValueScheme:     &domain.LowValueScheme{Name: "Low value imported goods", Threshold: d("1000")},
			VATOnDutyInclusive: true,
		},
		domain.Jurisdiction{
			CountryCode:     "JP",
			Name:            "Japan",
			Currency:        "JPY",
			TaxName:         "Consumption Tax",
			StandardVATRate: d("0.10"),
			ReducedRates: map[string]decimal.Decimal{
				domain.CategoryFood: d("0.08"),
			},
			DutyFreeThreshold:  dp("10000"),
			VATFreeThreshold:   dp("10000"),
			VATOnDutyInclusive: true,
		},
		domain.Jurisdiction{
			CountryCode:     "CH",
			Name:            "Switzerland",
			Currency:        "CHF",
			TaxName:         "MWST",
			StandardVATRate: d("0.081"),
			ReducedRates: map[string]decimal.Decimal{
				domain.CategoryBooks: d("0.026"),
				domain.CategoryFood:  d("0.026"),
			},
			VATOnDutyInclusive: true,
		},
	)
}

func defaultServices() []domain.CarrierService {
	postal := []string{"CA", "GB", "DE", "FR", "IT", "ES", "NL", "IE", "AU", "JP", "CH"}
	ecommerce := []string{"US", "CA", "GB", "DE", "FR", "IT", "ES", "NL", "IE", "AU"}
	return []domain.CarrierService{
		{
			Provider: "dhl", Service: "express_worldwide", DisplayName: "DHL Express Worldwide",
			BaseCost: d("25.00"), PerKgCost: d("9.00"),
			MinTransitDays: 2, MaxTransitDays: 4, MaxWeightKg: 70, MaxLengthCm: 120,
			Reliability: 0.95, Tracking: true, Insurance: true, DDP: true,
		},
		{
			Provider: "fedex", Service: "international_priority", DisplayName: "FedEx International Priority",
			BaseCost: d("22.00"), PerKgCost: d("8.50"),
			MinTransitDays: 3, MaxTransitDays: 5, MaxWeightKg: 68, MaxLengthCm: 274,
			Reliability: 0.93, Tracking: true, Insurance: true, DDP: true,
		},
		{
			Provider: "ups", Service: "worldwide_saver", DisplayName: "UPS Worldwide Saver",
			BaseCost: d("20.00"), PerKgCost: d("8.00"),
			MinTransitDays: 3, MaxTransitDays: 6, MaxWeightKg: 70, MaxLengthCm: 270,
			Reliability: 0.92, Tracking: true, Insurance: true,
		},
		{
			Provider: "usps", Service: "priority_mail_international", DisplayName: "USPS Priority Mail International",
			BaseCost: d("18.00"), PerKgCost: d("6.00"),
			MinTransitDays: 6, MaxTransitDays: 10, MaxWeightKg: 30, MaxLengthCm: 105,
			Reliability: 0.85, Tracking: true, Countries: postal,
		},
		{
			Provider: "dhl", Service: "ecommerce_packet", DisplayName: "DHL eCommerce Packet",
			BaseCost: d("9.00"), PerKgCost: d("5.00"),
			MinTransitDays: 7, MaxTransitDays: 14, MaxWeightKg: 30, MaxLengthCm: 120,
			Reliability: 0.82, Tracking: true, Countries: ecommerce,
		},
		{
			Provider: "yunexpress", Service: "global_direct", DisplayName: "YunExpress Global Direct",
			BaseCost: d("6.00"), PerKgCost: d("4.50"),
			MinTransitDays: 10, MaxTransitDays: 20, MaxWeightKg: 20, MaxLengthCm: 100,
			Reliability: 0.75, Tracking: true,
		},
	}
}
