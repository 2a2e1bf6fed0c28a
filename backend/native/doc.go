// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native implements gpucore.Device on top of a gogpu/wgpu HAL
// device.
//
// [HALAdapter] maps the opaque gpucore IDs handed out to the cache packages
// onto HAL objects. Generated WGSL is compiled to SPIR-V with naga before
// module creation, or validated and passed through as text when the backend
// consumes WGSL directly (see [WithShaderFormat]). Compile failures are
// reported as [*ShaderError] with the compiler diagnostic attached.
//
// [HALAdapter.WrapRenderPass] adapts a hal.RenderPassEncoder to
// gpucore.RenderPass so programs and geometry can record draws into a pass
// owned by the host application.
//
// Everything except the error values and the logger is excluded from
// builds with the nogpu tag.
package native
