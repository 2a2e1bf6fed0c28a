// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore provides the device abstraction shared by every g3d package.
//
// The [Device] interface is the narrow slice of a GPU API that shader program
// caching and buffer synchronization need: shader modules, render pipelines and
// buffers. It lets the same caching code run on top of:
//   - gogpu/wgpu HAL (see backend/native)
//   - a recording fake in tests
//
//	   +-----------+   +-----------+   +------------+
//	   |  program  |   | primitive |   | vertexsync |
//	   +-----+-----+   +-----+-----+   +------+-----+
//	         |               |                |
//	         +---------------+----------------+
//	                         |
//	                  +------v------+
//	                  |   gpucore   |
//	                  |  (Device)   |
//	                  +------+------+
//	                         |
//	                +--------v--------+
//	                |  native adapter |
//	                |  (hal.Device)   |
//	                +-----------------+
//
// # Resource Management
//
// GPU resources are referred to by opaque IDs ([BufferID], [ShaderModuleID],
// [RenderPipelineID]). Adapters keep the mapping between IDs and backend
// objects. IDs become invalid after destruction and are never reused.
//
// # Threading
//
// All Device calls are expected on the thread that owns the graphics context.
// Adapters may add locking, callers must not rely on it.
package gpucore
