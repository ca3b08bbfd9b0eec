package simulator

import "math"

// matrix2 is a dense 2x2 gate matrix acting on a single qubit's
// {|0>,|1>} subspace: [[m00,m01],[m10,m11]].
type matrix2 [2][2]complex128

var (
	matH = matrix2{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
	matX = matrix2{
		{0, 1},
		{1, 0},
	}
	matY = matrix2{
		{0, complex(0, -1)},
		{complex(0, 1), 0},
	}
	matZ = matrix2{
		{1, 0},
		{0, -1},
	}
	matS = matrix2{
		{1, 0},
		{0, complex(0, 1)},
	}
	matT = matrix2{
		{1, 0},
		{0, complex(math.Cos(math.Pi/4), math.Sin(math.Pi/4))},
	}
)

func matRX(theta float64) matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return matrix2{{c, s}, {s, c}}
}

func matRY(theta float64) matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return matrix2{{c, -s}, {s, c}}
}

func matRZ(theta float64) matrix2 {
	return matrix2{
		{cExp(-theta / 2), 0},
		{0, cExp(theta / 2)},
	}
}

func matU3(theta, phi, lambda float64) matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return matrix2{
		{c, -cExp(lambda) * s},
		{cExp(phi) * s, cExp(phi+lambda) * c},
	}
}

func cExp(theta float64) complex128 {
	return complex(math.Cos(theta), math.Sin(theta))
}
