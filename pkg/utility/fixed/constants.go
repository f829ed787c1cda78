package fixed

var (
	NegOne = MustFromString("-1")
	Zero   = MustFromString("0")
	One    = MustFromString("1")
	Two    = MustFromString("2")
	Ten    = MustFromString("10")
)
