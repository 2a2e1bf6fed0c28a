// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"
	"strings"
)

// Source is the generated WGSL of one program.
type Source struct {
	// Vertex holds the vertex module with entry point VertexEntry.
	Vertex string
	// Fragment holds the fragment module with entry point FragmentEntry.
	Fragment string
}

// block is one named piece of generated text.
type block struct {
	name string
	text string
}

// Generate returns the WGSL source of the program described by f.
//
// Generate is pure: equal descriptors always produce byte-identical text.
// It panics if f carries an enum value outside the declared constants.
func Generate(f Features) Source {
	return Source{
		Vertex:   join(vertexBlocks(f)),
		Fragment: join(fragmentBlocks(f)),
	}
}

func join(blocks []block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.text)
	}
	return sb.String()
}

func vertexBlocks(f Features) []block {
	blocks := []block{header(f, "vertex")}
	blocks = append(blocks, declarations(f)...)
	if h, ok := instanceHelper(f.instancing); ok {
		blocks = append(blocks, h)
	}
	if f.shading == ShadingFlatPerVertex {
		if f.color == ColorHSV {
			blocks = append(blocks, hsvHelper)
		}
		blocks = append(blocks, lightingHelper(f))
	}
	return append(blocks, vertexInput(f), varyings(f), vertexMain(f))
}

func fragmentBlocks(f Features) []block {
	blocks := []block{header(f, "fragment")}
	blocks = append(blocks, declarations(f)...)
	if f.color == ColorHSV && f.shading != ShadingFlatPerVertex {
		blocks = append(blocks, hsvHelper)
	}
	switch f.shading {
	case ShadingNone, ShadingFlatPerVertex:
	case ShadingSmoothPerFragment:
		blocks = append(blocks, lightingHelper(f))
	case ShadingMetal:
		blocks = append(blocks, metalHelper(f))
	default:
		panic(fmt.Sprintf("shader: unknown shading %d", f.shading))
	}
	return append(blocks, varyings(f), fragmentMain(f))
}

func header(f Features, stage string) block {
	return block{"header", fmt.Sprintf("// g3d %s shader\n// variant: %s\n", stage, f)}
}

// declarations returns the uniform blocks shared by both stages.
// Arrays sized by a zero count are omitted together with their block.
func declarations(f Features) []block {
	blocks := []block{{"frame", fmt.Sprintf(`struct Frame {
    model_view: mat4x4<f32>,
    projection: mat4x4<f32>,
    normal_matrix: mat4x4<f32>,
}
@group(%d) @binding(%d) var<uniform> frame: Frame;
`, GroupFrame, BindingFrame)}}

	if f.lights > 0 {
		blocks = append(blocks, block{"lights", fmt.Sprintf(`struct Light {
    position: vec4<f32>,
    diffuse: vec4<f32>,
    specular: vec4<f32>,
}
struct Lights {
    items: array<Light, %d>,
}
@group(%d) @binding(%d) var<uniform> light_block: Lights;
`, f.lights, GroupFrame, BindingLights)})
	}
	if f.clipPlanes > 0 {
		blocks = append(blocks, block{"clip", fmt.Sprintf(`struct ClipPlanes {
    planes: array<vec4<f32>, %d>,
}
@group(%d) @binding(%d) var<uniform> clipping: ClipPlanes;
`, f.clipPlanes, GroupFrame, BindingClip)})
	}

	blocks = append(blocks, block{"material", fmt.Sprintf(`struct Material {
    color: vec4<f32>,
    specular: vec4<f32>,
    ambient: vec4<f32>,
    selection: vec4<f32>,
}
@group(%d) @binding(%d) var<uniform> material: Material;
`, GroupMaterial, BindingMaterial)})

	if f.texture != TextureNone {
		blocks = append(blocks, block{"texture", fmt.Sprintf(`@group(%d) @binding(%d) var base_texture: texture_2d<f32>;
@group(%d) @binding(%d) var base_sampler: sampler;
`, GroupTexture, BindingTexture, GroupTexture, BindingSampler)})
	}
	return blocks
}

var hsvHelper = block{"hsv", `fn hsv_to_rgb(c: vec4<f32>) -> vec4<f32> {
    let k = vec3<f32>(1.0, 2.0 / 3.0, 1.0 / 3.0);
    let p = abs(fract(c.xxx + k) * 6.0 - vec3<f32>(3.0, 3.0, 3.0));
    let q = clamp(p - vec3<f32>(1.0, 1.0, 1.0), vec3<f32>(0.0, 0.0, 0.0), vec3<f32>(1.0, 1.0, 1.0));
    return vec4<f32>(c.z * mix(vec3<f32>(1.0, 1.0, 1.0), q, c.y), c.w);
}
`}

// lightingHelper returns the diffuse lighting function. The loop over
// lights is omitted when there are none, leaving ambient only.
func lightingHelper(f Features) block {
	var sb strings.Builder
	sb.WriteString(`fn lighting(n: vec3<f32>, p: vec3<f32>, base: vec4<f32>) -> vec4<f32> {
    var rgb = material.ambient.rgb * base.rgb;
`)
	if f.lights > 0 {
		fmt.Fprintf(&sb, `    for (var i = 0u; i < %du; i = i + 1u) {
        let light = light_block.items[i];
        let l = normalize(light.position.xyz - p * light.position.w);
        rgb = rgb + light.diffuse.rgb * base.rgb * max(dot(n, l), 0.0);
    }
`, f.lights)
	}
	sb.WriteString(`    return vec4<f32>(rgb, base.a);
}
`)
	return block{"lighting", sb.String()}
}

// metalHelper returns diffuse plus specular lighting with the highlight
// tinted by the base color.
func metalHelper(f Features) block {
	var sb strings.Builder
	sb.WriteString(`fn shade_metal(n: vec3<f32>, p: vec3<f32>, base: vec4<f32>) -> vec4<f32> {
    var rgb = material.ambient.rgb * base.rgb;
`)
	if f.lights > 0 {
		fmt.Fprintf(&sb, `    let v = normalize(-p);
    for (var i = 0u; i < %du; i = i + 1u) {
        let light = light_block.items[i];
        let l = normalize(light.position.xyz - p * light.position.w);
        let h = normalize(l + v);
        let diffuse = max(dot(n, l), 0.0);
        let highlight = pow(max(dot(n, h), 0.0), material.specular.a);
        rgb = rgb + light.diffuse.rgb * base.rgb * diffuse;
        rgb = rgb + light.specular.rgb * material.specular.rgb * base.rgb * highlight;
    }
`, f.lights)
	}
	sb.WriteString(`    return vec4<f32>(rgb, base.a);
}
`)
	return block{"metal", sb.String()}
}

func instanceHelper(i Instancing) (block, bool) {
	switch i {
	case InstancingNone, InstancingPoints, InstancingAffines:
		return block{}, false
	case InstancingLines:
		return block{"line_basis", `fn line_basis(p0: vec3<f32>, p1: vec3<f32>) -> mat3x3<f32> {
    let z = normalize(p1 - p0);
    var up = vec3<f32>(1.0, 0.0, 0.0);
    if abs(z.x) > 0.9 {
        up = vec3<f32>(0.0, 1.0, 0.0);
    }
    let x = normalize(cross(up, z));
    let y = cross(z, x);
    return mat3x3<f32>(x, y, z);
}
`}, true
	case InstancingFrames:
		return block{"quat_rotate", `fn quat_rotate(q: vec4<f32>, v: vec3<f32>) -> vec3<f32> {
    let t = 2.0 * cross(q.xyz, v);
    return v + q.w * t + cross(q.xyz, t);
}
`}, true
	default:
		panic(fmt.Sprintf("shader: unknown instancing mode %d", i))
	}
}

func vertexInput(f Features) block {
	var sb strings.Builder
	sb.WriteString("struct VertexInput {\n")
	for _, a := range Attributes(f) {
		fmt.Fprintf(&sb, "    @location(%d) %s: %s,\n", a.Location, a.Name, a.Format)
	}
	sb.WriteString("}\n")
	return block{"vertex_input", sb.String()}
}

// Varying locations.
const (
	varyingEyePosition = 0
	varyingEyeNormal   = 1
	varyingColor       = 2
	varyingTexCoord    = 3
)

// needsEyePosition reports whether the fragment stage reads the eye-space
// position, for clipping or per-fragment lighting.
func needsEyePosition(f Features) bool {
	return f.clipPlanes > 0 || f.shading == ShadingSmoothPerFragment || f.shading == ShadingMetal
}

func needsEyeNormal(f Features) bool {
	return f.shading == ShadingSmoothPerFragment || f.shading == ShadingMetal
}

func needsColorVarying(f Features) bool {
	return f.color != ColorNone || f.shading == ShadingFlatPerVertex
}

func varyings(f Features) block {
	var sb strings.Builder
	sb.WriteString("struct VertexOutput {\n    @builtin(position) clip_position: vec4<f32>,\n")
	if needsEyePosition(f) {
		fmt.Fprintf(&sb, "    @location(%d) eye_position: vec3<f32>,\n", varyingEyePosition)
	}
	if needsEyeNormal(f) {
		fmt.Fprintf(&sb, "    @location(%d) eye_normal: vec3<f32>,\n", varyingEyeNormal)
	}
	if needsColorVarying(f) {
		if f.shading == ShadingFlatPerVertex {
			fmt.Fprintf(&sb, "    @location(%d) @interpolate(flat) color: vec4<f32>,\n", varyingColor)
		} else {
			fmt.Fprintf(&sb, "    @location(%d) color: vec4<f32>,\n", varyingColor)
		}
	}
	if f.texture != TextureNone {
		fmt.Fprintf(&sb, "    @location(%d) texcoord: vec2<f32>,\n", varyingTexCoord)
	}
	sb.WriteString("}\n")
	return block{"varyings", sb.String()}
}

// instanceTransform returns statements defining model_position and, when lit,
// model_normal from the vertex input.
func instanceTransform(f Features) string {
	lit := f.Lit()
	var sb strings.Builder
	switch f.instancing {
	case InstancingNone:
		sb.WriteString("    let model_position = in.position;\n")
		if lit {
			sb.WriteString("    let model_normal = in.normal;\n")
		}
	case InstancingPoints:
		sb.WriteString("    let model_position = in.position + in.instance_offset;\n")
		if lit {
			sb.WriteString("    let model_normal = in.normal;\n")
		}
	case InstancingLines:
		sb.WriteString(`    let basis = line_basis(in.instance_p0, in.instance_p1);
    let span = length(in.instance_p1 - in.instance_p0);
    let model_position = basis * vec3<f32>(in.position.x, in.position.y, in.position.z * span) + in.instance_p0;
`)
		if lit {
			sb.WriteString("    let model_normal = basis * in.normal;\n")
		}
	case InstancingFrames:
		sb.WriteString("    let model_position = quat_rotate(in.instance_rotation, in.position) + in.instance_origin;\n")
		if lit {
			sb.WriteString("    let model_normal = quat_rotate(in.instance_rotation, in.normal);\n")
		}
	case InstancingAffines:
		sb.WriteString(`    let affine = mat4x4<f32>(in.instance_c0, in.instance_c1, in.instance_c2, in.instance_c3);
    let model_position = (affine * vec4<f32>(in.position, 1.0)).xyz;
`)
		if lit {
			sb.WriteString("    let model_normal = (affine * vec4<f32>(in.normal, 0.0)).xyz;\n")
		}
	default:
		panic(fmt.Sprintf("shader: unknown instancing mode %d", f.instancing))
	}
	return sb.String()
}

// vertexColor returns the expression of the unlit per-vertex color.
func vertexColor(f Features) string {
	switch f.color {
	case ColorNone:
		return "material.color"
	case ColorRGB:
		return "in.color"
	case ColorHSV:
		if f.shading == ShadingFlatPerVertex {
			return "hsv_to_rgb(in.color)"
		}
		return "in.color"
	default:
		panic(fmt.Sprintf("shader: unknown color mode %d", f.color))
	}
}

func vertexMain(f Features) block {
	var sb strings.Builder
	fmt.Fprintf(&sb, "@vertex\nfn %s(in: VertexInput) -> VertexOutput {\n    var out: VertexOutput;\n", VertexEntry)
	sb.WriteString(instanceTransform(f))
	sb.WriteString(`    let eye = frame.model_view * vec4<f32>(model_position, 1.0);
    out.clip_position = frame.projection * eye;
`)
	if needsEyePosition(f) {
		sb.WriteString("    out.eye_position = eye.xyz;\n")
	}
	if f.Lit() {
		sb.WriteString("    let eye_normal = normalize((frame.normal_matrix * vec4<f32>(model_normal, 0.0)).xyz);\n")
	}

	switch f.shading {
	case ShadingNone:
		if f.color != ColorNone {
			fmt.Fprintf(&sb, "    out.color = %s;\n", vertexColor(f))
		}
	case ShadingFlatPerVertex:
		fmt.Fprintf(&sb, "    out.color = lighting(eye_normal, eye.xyz, %s);\n", vertexColor(f))
	case ShadingSmoothPerFragment, ShadingMetal:
		sb.WriteString("    out.eye_normal = eye_normal;\n")
		if f.color != ColorNone {
			fmt.Fprintf(&sb, "    out.color = %s;\n", vertexColor(f))
		}
	default:
		panic(fmt.Sprintf("shader: unknown shading %d", f.shading))
	}

	if f.texture != TextureNone {
		sb.WriteString("    out.texcoord = in.texcoord;\n")
	}
	sb.WriteString("    return out;\n}\n")
	return block{"vertex_main", sb.String()}
}

func clipTest(f Features) string {
	if f.clipPlanes == 0 {
		return ""
	}
	return fmt.Sprintf(`    for (var i = 0u; i < %du; i = i + 1u) {
        if dot(clipping.planes[i], vec4<f32>(in.eye_position, 1.0)) < 0.0 {
            discard;
        }
    }
`, f.clipPlanes)
}

// fragmentColor returns the expression of the surface color before
// texturing and lighting.
func fragmentColor(f Features) string {
	if f.shading == ShadingFlatPerVertex {
		return "in.color"
	}
	switch f.color {
	case ColorNone:
		return "material.color"
	case ColorRGB:
		return "in.color"
	case ColorHSV:
		return "hsv_to_rgb(in.color)"
	default:
		panic(fmt.Sprintf("shader: unknown color mode %d", f.color))
	}
}

func textureMix(m TextureMode) string {
	switch m {
	case TextureNone:
		return ""
	case TextureReplace:
		return "    color = texel;\n"
	case TextureModulate:
		return "    color = color * texel;\n"
	case TextureDecal:
		return "    color = vec4<f32>(mix(color.rgb, texel.rgb, texel.a), color.a);\n"
	default:
		panic(fmt.Sprintf("shader: unknown texture mode %d", m))
	}
}

func fragmentMain(f Features) block {
	var sb strings.Builder
	fmt.Fprintf(&sb, "@fragment\nfn %s(in: VertexOutput) -> @location(0) vec4<f32> {\n", FragmentEntry)

	// Selection short-circuits every other branch.
	if f.selection {
		sb.WriteString(clipTest(f))
		sb.WriteString("    return material.selection;\n}\n")
		return block{"fragment_main", sb.String()}
	}

	if f.texture != TextureNone {
		sb.WriteString("    let texel = textureSample(base_texture, base_sampler, in.texcoord);\n")
	}
	sb.WriteString(clipTest(f))
	fmt.Fprintf(&sb, "    var color = %s;\n", fragmentColor(f))
	sb.WriteString(textureMix(f.texture))

	switch f.shading {
	case ShadingNone, ShadingFlatPerVertex:
	case ShadingSmoothPerFragment:
		sb.WriteString("    color = lighting(normalize(in.eye_normal), in.eye_position, color);\n")
	case ShadingMetal:
		sb.WriteString("    color = shade_metal(normalize(in.eye_normal), in.eye_position, color);\n")
	default:
		panic(fmt.Sprintf("shader: unknown shading %d", f.shading))
	}
	sb.WriteString("    return color;\n}\n")
	return block{"fragment_main", sb.String()}
}
