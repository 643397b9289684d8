package rawunravel

// ColorMatrix is a 3x3 linear transform, row-major, applied to RGB
// triplets. Containers report camera-native to working-space matrices in
// this shape.
type ColorMatrix [3][3]float32

// IdentityMatrix leaves colors untouched.
var IdentityMatrix = ColorMatrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// ApplyMatrix multiplies every pixel by m in place, converting
// camera-native linear RGB into the target working space. The raster stays
// linear; apply before export.
func (r *Raster) ApplyMatrix(m ColorMatrix) {
	if m == IdentityMatrix {
		return
	}
	for i := range r.R {
		cr, cg, cb := r.R[i], r.G[i], r.B[i]
		r.R[i] = m[0][0]*cr + m[0][1]*cg + m[0][2]*cb
		r.G[i] = m[1][0]*cr + m[1][1]*cg + m[1][2]*cb
		r.B[i] = m[2][0]*cr + m[2][1]*cg + m[2][2]*cb
	}
}
