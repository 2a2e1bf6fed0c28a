// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package g3d provides the GPU resource layer of a scientific 3D renderer.
//
// # Overview
//
// g3d sits between a scene description and a WebGPU device. It does not
// draw scenes itself; it hands out the GPU objects a renderer needs and
// keeps them alive exactly as long as they are used:
//
//   - Shader programs generated from a feature descriptor and compiled
//     once per distinct variant (packages shader and program)
//   - Shared unit primitives (spheres, cylinders, cones, spindles, axes,
//     cubes) with reference counting and periodic collection (package
//     primitive)
//   - Versioned vertex data copied to GPU buffers with the smallest update
//     that matches what changed (package vertexsync)
//
// # Quick Start
//
//	import "github.com/gogpu/g3d"
//
//	// provider is a gpucontext.DeviceProvider from the host application.
//	ctx, err := g3d.NewContextFromProvider(provider, g3d.WithLightCount(2))
//	if err != nil {
//	    return err
//	}
//	defer ctx.Shutdown()
//
//	prog, err := ctx.Program(shader.NewFeatures().
//	    WithShading(shader.ShadingSmoothPerFragment).
//	    WithColor(shader.ColorRGB))
//	if err != nil {
//	    return err
//	}
//
//	prims := ctx.NewPrimitiveCache()
//	sphere, err := prims.Sphere(3)
//	if err != nil {
//	    return err
//	}
//	defer sphere.Release()
//
//	prog.Bind(pass)
//	if err := sphere.Bind(pass, prog); err != nil {
//	    return err
//	}
//	sphere.Draw(pass, 1)
//
//	// Once per frame.
//	ctx.CollectGarbage(time.Now())
//
// # Devices
//
// Everything allocates through [gpucore.Device]. [NewContextFromProvider]
// wraps the HAL device of a gpucontext provider with the native backend.
// Builds with the nogpu tag leave the backend out; [NewContext] accepts any
// gpucore.Device, which is how tests run without a GPU.
//
// # Logging
//
// g3d is silent by default. [SetLogger] installs a [log/slog] logger for
// this package and every sub-package.
package g3d
