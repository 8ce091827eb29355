// seehuhn.de/go/blockrender - render voxel blocks from game resource packs
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package testpack

import "fmt"

// deepChain is the number of intermediate models between the leaf of
// "minecraft:deep_block" and block/cube_all.
const deepChain = 18

var blockStates = map[string]string{
	"stone": `{"variants": {"": {"model": "minecraft:block/stone"}}}`,
	"glass": `{"variants": {"": {"model": "minecraft:block/glass"}}}`,
	"grass_block": `{
  "variants": {
    "snowy=false": {"model": "minecraft:block/grass_block"},
    "snowy=true":  {"model": "minecraft:block/grass_block_snow"}
  }
}`,
	"oak_stairs": `{
  "variants": {
    "facing=east,half=bottom,shape=straight":  {"model": "minecraft:block/oak_stairs"},
    "facing=south,half=bottom,shape=straight": {"model": "minecraft:block/oak_stairs", "y": 90, "uvlock": true},
    "facing=west,half=bottom,shape=straight":  {"model": "minecraft:block/oak_stairs", "y": 180, "uvlock": true},
    "facing=north,half=bottom,shape=straight": {"model": "minecraft:block/oak_stairs", "y": 270, "uvlock": true},
    "facing=east,half=top,shape=straight":     {"model": "minecraft:block/oak_stairs", "x": 180, "uvlock": true},
    "facing=north,half=top,shape=straight":    {"model": "minecraft:block/oak_stairs", "x": 180, "y": 270, "uvlock": true}
  }
}`,
	"oak_fence": `{
  "multipart": [
    {"apply": {"model": "minecraft:block/oak_fence_post"}},
    {"when": {"north": "true"}, "apply": {"model": "minecraft:block/oak_fence_side", "uvlock": true}},
    {"when": {"east": "true"},  "apply": {"model": "minecraft:block/oak_fence_side", "y": 90, "uvlock": true}},
    {"when": {"south": "true"}, "apply": {"model": "minecraft:block/oak_fence_side", "y": 180, "uvlock": true}},
    {"when": {"west": "true"},  "apply": {"model": "minecraft:block/oak_fence_side", "y": 270, "uvlock": true}}
  ]
}`,
	"redstone_lamp_post": `{
  "multipart": [
    {"when": {"OR": [{"lit": "true"}, {"powered": "true"}]}, "apply": {"model": "minecraft:block/glass"}},
    {"when": {"facing": "north|south"}, "apply": {"model": "minecraft:block/stone"}},
    {"when": {"AND": [{"lit": "true"}, {"facing": "east"}]}, "apply": {"model": "minecraft:block/oak_slab"}}
  ]
}`,
	"oak_slab": `{
  "variants": {
    "type=bottom": {"model": "minecraft:block/oak_slab"},
    "type=top":    {"model": "minecraft:block/oak_slab_top"},
    "type=double": {"model": "minecraft:block/oak_planks"}
  }
}`,
	"poppy":       `{"variants": {"": {"model": "minecraft:block/poppy"}}}`,
	"sea_lantern": `{"variants": {"": {"model": "minecraft:block/sea_lantern"}}}`,
	"old_stone":   `{"variants": {"normal": {"model": "stone"}}}`,
	"weighted_stone": `{
  "variants": {
    "": [
      {"model": "minecraft:block/stone", "weight": 1},
      {"model": "minecraft:block/glass", "weight": 5},
      {"model": "minecraft:block/stone", "y": 90, "weight": 2}
    ]
  }
}`,
	"testmod:ruby_block": `{"variants": {"": {"model": "testmod:block/ruby_block"}}}`,

	"cycle_block":             `{"variants": {"": {"model": "minecraft:block/cycle_a"}}}`,
	"deep_block":              `{"variants": {"": {"model": "minecraft:block/deep_0"}}}`,
	"texcycle_block":          `{"variants": {"": {"model": "minecraft:block/texcycle"}}}`,
	"missing_texture_block":   `{"variants": {"": {"model": "minecraft:block/missing_texture"}}}`,
	"undefined_texture_block": `{"variants": {"": {"model": "minecraft:block/undefined_texture"}}}`,
	"bad_texture_block":       `{"variants": {"": {"model": "minecraft:block/bad_texture"}}}`,
	"missing_model_block":     `{"variants": {"": {"model": "minecraft:block/no_such_model"}}}`,
	"broken_block":            `{"variants": {"": {"model": "minecraft:block/stone"}`,
}

var baseModels = map[string]string{
	"block/block": `{"ambientocclusion": true}`,
	"block/cube": `{
  "parent": "block/block",
  "elements": [
    {
      "from": [0, 0, 0],
      "to": [16, 16, 16],
      "faces": {
        "down":  {"texture": "#down",  "cullface": "down"},
        "up":    {"texture": "#up",    "cullface": "up"},
        "north": {"texture": "#north", "cullface": "north"},
        "south": {"texture": "#south", "cullface": "south"},
        "west":  {"texture": "#west",  "cullface": "west"},
        "east":  {"texture": "#east",  "cullface": "east"}
      }
    }
  ]
}`,
	"block/cube_all": `{
  "parent": "block/cube",
  "textures": {
    "particle": "#all",
    "down": "#all", "up": "#all",
    "north": "#all", "east": "#all", "south": "#all", "west": "#all"
  }
}`,
	"block/cube_bottom_top": `{
  "parent": "minecraft:block/cube",
  "textures": {
    "particle": "#side",
    "down": "#bottom", "up": "#top",
    "north": "#side", "east": "#side", "south": "#side", "west": "#side"
  }
}`,
	"block/stone": `{"parent": "minecraft:block/cube_all", "textures": {"all": "minecraft:block/stone"}}`,
	"block/glass": `{"parent": "minecraft:block/cube_all", "textures": {"all": "minecraft:block/glass"}}`,
	"block/oak_planks": `{"parent": "minecraft:block/cube_all", "textures": {"all": "minecraft:block/oak_planks"}}`,
	"block/sea_lantern": `{"parent": "minecraft:block/cube_all", "textures": {"all": "minecraft:block/sea_lantern"}}`,
	"block/grass_block": `{
  "parent": "block/block",
  "textures": {
    "particle": "block/dirt",
    "bottom": "block/dirt",
    "top": "block/grass_block_top",
    "side": "block/grass_block_side"
  },
  "elements": [
    {
      "from": [0, 0, 0],
      "to": [16, 16, 16],
      "faces": {
        "down":  {"uv": [0, 0, 16, 16], "texture": "#bottom", "cullface": "down"},
        "up":    {"uv": [0, 0, 16, 16], "texture": "#top", "cullface": "up", "tintindex": 0},
        "north": {"uv": [0, 0, 16, 16], "texture": "#side", "cullface": "north"},
        "south": {"uv": [0, 0, 16, 16], "texture": "#side", "cullface": "south"},
        "west":  {"uv": [0, 0, 16, 16], "texture": "#side", "cullface": "west"},
        "east":  {"uv": [0, 0, 16, 16], "texture": "#side", "cullface": "east"}
      }
    }
  ]
}`,
	"block/grass_block_snow": `{
  "parent": "minecraft:block/cube_bottom_top",
  "textures": {
    "bottom": "minecraft:block/dirt",
    "side": "minecraft:block/grass_block_snow",
    "top": "minecraft:block/grass_block_top"
  }
}`,
	"block/stairs": `{
  "parent": "block/block",
  "textures": {"particle": "#side"},
  "elements": [
    {
      "from": [0, 0, 0],
      "to": [16, 8, 16],
      "faces": {
        "down":  {"uv": [0, 0, 16, 16], "texture": "#bottom", "cullface": "down"},
        "up":    {"uv": [0, 0, 16, 16], "texture": "#top"},
        "north": {"uv": [0, 8, 16, 16], "texture": "#side", "cullface": "north"},
        "south": {"uv": [0, 8, 16, 16], "texture": "#side", "cullface": "south"},
        "west":  {"uv": [0, 8, 16, 16], "texture": "#side", "cullface": "west"},
        "east":  {"uv": [0, 8, 16, 16], "texture": "#side", "cullface": "east"}
      }
    },
    {
      "from": [8, 8, 0],
      "to": [16, 16, 16],
      "faces": {
        "up":    {"uv": [8, 0, 16, 16], "texture": "#top", "cullface": "up"},
        "north": {"uv": [0, 0, 8, 8], "texture": "#side", "cullface": "north"},
        "south": {"uv": [8, 0, 16, 8], "texture": "#side", "cullface": "south"},
        "west":  {"uv": [0, 0, 16, 8], "texture": "#side"},
        "east":  {"uv": [0, 0, 16, 8], "texture": "#side", "cullface": "east"}
      }
    }
  ]
}`,
	"block/oak_stairs": `{
  "parent": "minecraft:block/stairs",
  "textures": {
    "bottom": "minecraft:block/oak_planks",
    "top": "minecraft:block/oak_planks",
    "side": "minecraft:block/oak_planks"
  }
}`,
	"block/slab": `{
  "parent": "block/block",
  "elements": [
    {
      "from": [0, 0, 0],
      "to": [16, 8, 16],
      "faces": {
        "down":  {"texture": "#bottom", "cullface": "down"},
        "up":    {"texture": "#top"},
        "north": {"texture": "#side", "cullface": "north"},
        "south": {"texture": "#side", "cullface": "south"},
        "west":  {"texture": "#side", "cullface": "west"},
        "east":  {"texture": "#side", "cullface": "east"}
      }
    }
  ]
}`,
	"block/slab_top": `{
  "parent": "block/block",
  "elements": [
    {
      "from": [0, 8, 0],
      "to": [16, 16, 16],
      "faces": {
        "down":  {"texture": "#bottom"},
        "up":    {"texture": "#top", "cullface": "up"},
        "north": {"texture": "#side", "cullface": "north"},
        "south": {"texture": "#side", "cullface": "south"},
        "west":  {"texture": "#side", "cullface": "west"},
        "east":  {"texture": "#side", "cullface": "east"}
      }
    }
  ]
}`,
	"block/oak_slab": `{
  "parent": "minecraft:block/slab",
  "textures": {"bottom": "block/oak_planks", "top": "block/oak_planks", "side": "block/oak_planks"}
}`,
	"block/oak_slab_top": `{
  "parent": "minecraft:block/slab_top",
  "textures": {"bottom": "block/oak_planks", "top": "block/oak_planks", "side": "block/oak_planks"}
}`,
	"block/fence_post": `{
  "textures": {"particle": "#texture"},
  "elements": [
    {
      "from": [6, 0, 6],
      "to": [10, 16, 10],
      "faces": {
        "down":  {"uv": [6, 6, 10, 10], "texture": "#texture", "cullface": "down"},
        "up":    {"uv": [6, 6, 10, 10], "texture": "#texture", "cullface": "up"},
        "north": {"uv": [6, 0, 10, 16], "texture": "#texture"},
        "south": {"uv": [6, 0, 10, 16], "texture": "#texture"},
        "west":  {"uv": [6, 0, 10, 16], "texture": "#texture"},
        "east":  {"uv": [6, 0, 10, 16], "texture": "#texture"}
      },
      "__comment": "Center post"
    }
  ]
}`,
	"block/fence_side": `{
  "textures": {"particle": "#texture"},
  "elements": [
    {
      "from": [7, 12, 0],
      "to": [9, 15, 9],
      "faces": {
        "down":  {"uv": [7, 0, 9, 9], "texture": "#texture"},
        "up":    {"uv": [7, 0, 9, 9], "texture": "#texture"},
        "north": {"uv": [7, 1, 9, 4], "texture": "#texture", "cullface": "north"},
        "west":  {"uv": [0, 1, 9, 4], "texture": "#texture"},
        "east":  {"uv": [0, 1, 9, 4], "texture": "#texture"}
      }
    },
    {
      "from": [7, 6, 0],
      "to": [9, 9, 9],
      "faces": {
        "down":  {"uv": [7, 0, 9, 9], "texture": "#texture"},
        "up":    {"uv": [7, 0, 9, 9], "texture": "#texture"},
        "north": {"uv": [7, 7, 9, 10], "texture": "#texture", "cullface": "north"},
        "west":  {"uv": [0, 7, 9, 10], "texture": "#texture"},
        "east":  {"uv": [0, 7, 9, 10], "texture": "#texture"}
      }
    }
  ]
}`,
	"block/oak_fence_post": `{"parent": "minecraft:block/fence_post", "textures": {"texture": "minecraft:block/oak_planks"}}`,
	"block/oak_fence_side": `{"parent": "minecraft:block/fence_side", "textures": {"texture": "minecraft:block/oak_planks"}}`,
	"block/cross": `{
  "ambientocclusion": false,
  "textures": {"particle": "#cross"},
  "elements": [
    {
      "from": [0.8, 0, 8],
      "to": [15.2, 16, 8],
      "shade": false,
      "rotation": {"origin": [8, 8, 8], "axis": "y", "angle": 45, "rescale": true},
      "faces": {
        "north": {"uv": [0, 0, 16, 16], "texture": "#cross"},
        "south": {"uv": [0, 0, 16, 16], "texture": "#cross"}
      }
    },
    {
      "from": [8, 0, 0.8],
      "to": [8, 16, 15.2],
      "shade": false,
      "rotation": {"origin": [8, 8, 8], "axis": "y", "angle": 45, "rescale": true},
      "faces": {
        "west": {"uv": [0, 0, 16, 16], "texture": "#cross"},
        "east": {"uv": [0, 0, 16, 16], "texture": "#cross"}
      }
    }
  ]
}`,
	"block/poppy": `{"parent": "minecraft:block/cross", "textures": {"cross": "minecraft:block/poppy"}}`,

	"block/cycle_a": `{"parent": "minecraft:block/cycle_b", "textures": {"all": "block/stone"}}`,
	"block/cycle_b": `{"parent": "minecraft:block/cycle_a"}`,
	"block/texcycle": `{
  "parent": "block/cube",
  "textures": {
    "a": "#b", "b": "#a",
    "down": "#a", "up": "#a", "north": "#a", "south": "#a", "west": "#a", "east": "#a"
  }
}`,
	"block/missing_texture": `{"parent": "block/cube_all", "textures": {"all": "block/does_not_exist"}}`,
	"block/undefined_texture": `{
  "elements": [
    {"from": [0, 0, 0], "to": [16, 16, 16], "faces": {"up": {"texture": "#nothing"}}}
  ]
}`,
	"block/bad_texture": `{"parent": "block/cube_all", "textures": {"all": "block/not_a_png"}}`,

	"testmod:block/ruby_block": `{"parent": "minecraft:block/cube_all", "textures": {"all": "testmod:block/ruby"}}`,
}

// models returns the model files, including the generated deep chain.
func models() map[string]string {
	res := make(map[string]string, len(baseModels)+deepChain+2)
	for id, js := range baseModels {
		res[id] = js
	}

	// deep_0 -> deep_1 -> ... -> deep_<deepChain> -> cube_all -> cube -> block
	for i := 0; i <= deepChain; i++ {
		parent := fmt.Sprintf("minecraft:block/deep_%d", i+1)
		if i == deepChain {
			parent = "minecraft:block/cube_all"
		}
		if i == 0 {
			res["block/deep_0"] = fmt.Sprintf(`{"parent": %q, "textures": {"all": "block/stone"}}`, parent)
		} else {
			res[fmt.Sprintf("block/deep_%d", i)] = fmt.Sprintf(`{"parent": %q}`, parent)
		}
	}
	return res
}

var textureMeta = map[string]string{
	"block/sea_lantern": `{"animation": {"frametime": 5}}`,
}
