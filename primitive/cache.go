// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package primitive

// slot remembers the last geometry a Cache returned for one family.
type slot struct {
	key        Key
	geometry   *Geometry
	generation uint64
}

// Cache is a per-consumer front of a Pool. It keeps one slot per shape
// family, so repeated requests for the same shape skip the pool lock. A hit
// only reads the pool generation atomically.
//
// Cache is not safe for concurrent use; give each render goroutine its own.
type Cache struct {
	pool  *Pool
	slots [numFamilies]slot
}

// Pool returns the backing pool.
func (c *Cache) Pool() *Pool { return c.pool }

// Get returns an acquired geometry for key. The caller must Release it.
func (c *Cache) Get(key Key) (*Geometry, error) {
	key = key.Normalize()
	s := &c.slots[key.Family()]
	if s.geometry != nil && s.key == key && s.geometry.IsValid() &&
		s.generation == c.pool.Generation() && s.geometry.Acquire() == nil {
		return s.geometry, nil
	}

	g, gen, err := c.pool.acquire(key)
	if err != nil {
		*s = slot{}
		return nil, err
	}
	*s = slot{key: key, geometry: g, generation: gen}
	return g, nil
}

// Sphere returns a unit icosphere subdivided levels times.
func (c *Cache) Sphere(levels int) (*Geometry, error) {
	return c.Get(SphereKey{Levels: levels})
}

// Cylinder returns a unit cylinder along z.
func (c *Cache) Cylinder(slices int, capped bool) (*Geometry, error) {
	return c.Get(CylinderKey{Slices: slices, Capped: capped})
}

// Cone returns a unit cone along z.
func (c *Cache) Cone(slices int, capped bool) (*Geometry, error) {
	return c.Get(ConeKey{Slices: slices, Capped: capped})
}

// Spindle returns a double cone along z.
func (c *Cache) Spindle(slices int) (*Geometry, error) {
	return c.Get(SpindleKey{Slices: slices})
}

// Axes returns the colored axis arrows.
func (c *Cache) Axes(slices int) (*Geometry, error) {
	return c.Get(AxesKey{Slices: slices})
}

// Cube returns the cube spanning [-1, 1].
func (c *Cache) Cube() (*Geometry, error) {
	return c.Get(CubeKey{})
}

// Reset forgets the fast-path slots.
func (c *Cache) Reset() {
	c.slots = [numFamilies]slot{}
}
