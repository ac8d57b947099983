package material

// Default catalog values. Codes group by family in the first two digits:
// 10 aluminio, 20 acero, 30 inoxidable, 40 latón/cobre, 50 titanio,
// 60 plásticos de ingeniería. Removal rates and penalties come from shop
// experience with a 3-axis vertical center, not from handbook optima.
var defaultEntries = []Entry{
	{
		Code: "10600001", Category: "Aluminio", Name: "Aluminio 6061-T6",
		HardnessHB: 95, DensityGCm3: 2.70,
		MRRAggressive: 180, MRRFinishing: 100,
		SpeedRoughing: 400, SpeedFinishing: 600,
		DeepPocketPenalty: 1.8, ThinWallPenalty: 2.5,
	},
	{
		Code: "10700001", Category: "Aluminio", Name: "Aluminio 7075-T651",
		HardnessHB: 150, DensityGCm3: 2.81,
		MRRAggressive: 150, MRRFinishing: 85,
		SpeedRoughing: 350, SpeedFinishing: 550,
		DeepPocketPenalty: 1.8, ThinWallPenalty: 2.4,
	},
	{
		Code: "20104501", Category: "Acero", Name: "Acero 1045",
		HardnessHB: 170, DensityGCm3: 7.85,
		MRRAggressive: 60, MRRFinishing: 35,
		SpeedRoughing: 120, SpeedFinishing: 180,
		DeepPocketPenalty: 2.0, ThinWallPenalty: 2.6,
	},
	{
		Code: "20414001", Category: "Acero", Name: "Acero 4140 pretratado",
		HardnessHB: 280, DensityGCm3: 7.85,
		MRRAggressive: 45, MRRFinishing: 28,
		SpeedRoughing: 100, SpeedFinishing: 150,
		DeepPocketPenalty: 2.1, ThinWallPenalty: 2.8,
	},
	{
		Code: "30430401", Category: "Inoxidable", Name: "Inoxidable 304",
		HardnessHB: 201, DensityGCm3: 8.00,
		MRRAggressive: 40, MRRFinishing: 25,
		SpeedRoughing: 90, SpeedFinishing: 140,
		DeepPocketPenalty: 2.2, ThinWallPenalty: 2.9,
	},
	{
		Code: "30431601", Category: "Inoxidable", Name: "Inoxidable 316L",
		HardnessHB: 217, DensityGCm3: 8.00,
		MRRAggressive: 35, MRRFinishing: 22,
		SpeedRoughing: 80, SpeedFinishing: 130,
		DeepPocketPenalty: 2.2, ThinWallPenalty: 3.0,
	},
	{
		Code: "40360001", Category: "Latón", Name: "Latón C360",
		HardnessHB: 100, DensityGCm3: 8.50,
		MRRAggressive: 220, MRRFinishing: 120,
		SpeedRoughing: 300, SpeedFinishing: 500,
		DeepPocketPenalty: 1.4, ThinWallPenalty: 1.9,
	},
	{
		Code: "50640001", Category: "Titanio", Name: "Ti-6Al-4V",
		HardnessHB: 334, DensityGCm3: 4.43,
		MRRAggressive: 20, MRRFinishing: 12,
		SpeedRoughing: 40, SpeedFinishing: 60,
		DeepPocketPenalty: 2.5, ThinWallPenalty: 3.2,
	},
	{
		Code: "60100001", Category: "Plásticos", Name: "POM (Delrin)",
		HardnessHB: 20, DensityGCm3: 1.41,
		MRRAggressive: 300, MRRFinishing: 160,
		SpeedRoughing: 500, SpeedFinishing: 800,
		DeepPocketPenalty: 1.3, ThinWallPenalty: 1.7,
	},
	{
		Code: "60200001", Category: "Plásticos", Name: "Nylon PA6",
		HardnessHB: 15, DensityGCm3: 1.14,
		MRRAggressive: 280, MRRFinishing: 150,
		SpeedRoughing: 450, SpeedFinishing: 700,
		DeepPocketPenalty: 1.3, ThinWallPenalty: 1.8,
	},
}

// DefaultCatalog builds the compiled-in material table. It panics only on a
// programming error in the table above, caught by the package tests.
func DefaultCatalog() Catalog {
	c, err := NewCatalog(defaultEntries)
	if err != nil {
		panic(err)
	}
	return c
}
