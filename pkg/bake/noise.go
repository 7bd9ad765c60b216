package bake

import stdmath "math"

// permutation is the reference gradient permutation of improved Perlin
// noise. It is fixed so noise values never depend on runtime state.
var permutation = [256]uint8{
	151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
	140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
	247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
	57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
	74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
	60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
	65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
	200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
	52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
	207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
	119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
	218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
	81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
	184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
	222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

func perm(i int) int {
	return int(permutation[i&255])
}

// Noise2D returns 2D gradient noise in [0, 1]. It is continuous, has no
// state and is bit-reproducible: every product is rounded explicitly so the
// compiler cannot fuse it into an FMA on architectures that have one.
func Noise2D(x, y float32) float32 {
	fx, fy := float64(x), float64(y)
	x0, y0 := stdmath.Floor(fx), stdmath.Floor(fy)
	xf, yf := fx-x0, fy-y0
	xi, yi := int(x0)&255, int(y0)&255

	u, v := fade(xf), fade(yf)

	aa := perm(perm(xi) + yi)
	ab := perm(perm(xi) + yi + 1)
	ba := perm(perm(xi+1) + yi)
	bb := perm(perm(xi+1) + yi + 1)

	n0 := lerp(grad(aa, xf, yf), grad(ba, xf-1, yf), u)
	n1 := lerp(grad(ab, xf, yf-1), grad(bb, xf-1, yf-1), u)
	n := lerp(n0, n1, v)

	out := float32(float64(n+1) * 0.5)
	if out < 0 {
		return 0
	}
	if out > 1 {
		return 1
	}
	return out
}

// fade is the quintic 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	a := float64(t*6) - 15
	b := float64(t*a) + 10
	return float64(float64(float64(t*t)*t) * b)
}

func lerp(a, b, t float64) float64 {
	return a + float64(t*(b-a))
}

// grad dots (x, y) with one of eight unit-ish lattice gradients. The
// gradients have components in {-1, 0, 1} so the result is exact.
func grad(hash int, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}
