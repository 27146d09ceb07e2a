package world

// VoxelType is the material id stored per voxel.
type VoxelType uint8

const (
	Air        VoxelType = 0
	Stone      VoxelType = 1
	Dirt       VoxelType = 2
	Grass      VoxelType = 3
	Sand       VoxelType = 4
	Gravel     VoxelType = 5
	Clay       VoxelType = 6
	Bedrock    VoxelType = 7
	Topsoil    VoxelType = 8
	Subsoil    VoxelType = 9
	Sandstone  VoxelType = 13
	CoalOre    VoxelType = 20
	IronOre    VoxelType = 21
	GoldOre    VoxelType = 25
	DiamondOre VoxelType = 29
	Snow       VoxelType = 40
	Ice        VoxelType = 41
	Water      VoxelType = 50
	Lava       VoxelType = 51
)

var voxelNames = [256]string{
	Air:        "air",
	Stone:      "stone",
	Dirt:       "dirt",
	Grass:      "grass",
	Sand:       "sand",
	Gravel:     "gravel",
	Clay:       "clay",
	Bedrock:    "bedrock",
	Topsoil:    "topsoil",
	Subsoil:    "subsoil",
	Sandstone:  "sandstone",
	CoalOre:    "coal_ore",
	IronOre:    "iron_ore",
	GoldOre:    "gold_ore",
	DiamondOre: "diamond_ore",
	Snow:       "snow",
	Ice:        "ice",
	Water:      "water",
	Lava:       "lava",
}

func (v VoxelType) String() string {
	if name := voxelNames[v]; name != "" {
		return name
	}
	return "unknown"
}

// Known reports whether v is one of the defined materials.
func (v VoxelType) Known() bool {
	return voxelNames[v] != ""
}

// Solid reports whether v blocks movement.
func (v VoxelType) Solid() bool {
	return v != Air && v != Water && v != Lava
}
