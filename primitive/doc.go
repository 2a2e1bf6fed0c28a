// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package primitive tessellates and caches the built-in shapes.
//
// A [Key] names a shape and its tessellation parameters. A [Pool] maps keys
// to uploaded [Geometry] shared by everyone drawing on one device; a [Cache]
// sits in front of it for one consumer and remembers the last geometry
// returned for each shape family.
//
// Every request returns an acquired geometry:
//
//	g, err := cache.Cylinder(32, true)
//	if err != nil {
//		return err
//	}
//	defer g.Release()
//	if err := g.Bind(pass, prog); err != nil {
//		return err
//	}
//	g.Draw(pass, 1)
//
// Only [Pool.Garbage] and [Pool.Dispose] destroy GPU buffers. Garbage
// collects entries that are unreferenced or invalid; an invalidated entry is
// disposed even while held, so holders must request it again.
package primitive
