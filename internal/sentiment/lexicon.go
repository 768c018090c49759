package sentiment

// Subset of the AFINN-111 word list, valences in [-5, 5].
var defaultLexicon = map[string]int{
	"abandoned":    -2,
	"admire":       3,
	"adorable":     3,
	"afraid":       -2,
	"amazing":      4,
	"angry":        -3,
	"annoying":     -2,
	"anxious":      -2,
	"awesome":      4,
	"awful":        -3,
	"bad":          -3,
	"beautiful":    3,
	"best":         3,
	"better":       2,
	"boring":       -3,
	"brilliant":    4,
	"broken":       -1,
	"calm":         2,
	"celebrate":    3,
	"cheerful":     2,
	"confused":     -2,
	"cool":         1,
	"crash":        -2,
	"cry":          -1,
	"cruel":        -3,
	"damn":         -4,
	"dead":         -3,
	"delightful":   3,
	"depressed":    -3,
	"disappointed": -2,
	"disaster":     -2,
	"dumb":         -3,
	"enjoy":        2,
	"excellent":    3,
	"excited":      3,
	"fail":         -2,
	"fantastic":    4,
	"fear":         -2,
	"fine":         2,
	"fun":          4,
	"funny":        4,
	"glad":         3,
	"good":         3,
	"great":        3,
	"happy":        3,
	"hate":         -3,
	"hell":         -4,
	"help":         2,
	"hope":         2,
	"horrible":     -3,
	"hurt":         -2,
	"interesting":  2,
	"joy":          3,
	"kind":         2,
	"lame":         -2,
	"laugh":        1,
	"like":         2,
	"lol":          3,
	"lost":         -3,
	"love":         3,
	"loved":        3,
	"lucky":        3,
	"mad":          -3,
	"miss":         -1,
	"nice":         3,
	"no":           -1,
	"pain":         -2,
	"perfect":      3,
	"pleasant":     3,
	"poor":         -2,
	"pretty":       1,
	"proud":        2,
	"sad":          -2,
	"scared":       -2,
	"sick":         -2,
	"smile":        2,
	"sorry":        -1,
	"strong":       2,
	"stupid":       -2,
	"success":      2,
	"sucks":        -3,
	"super":        3,
	"terrible":     -3,
	"thanks":       2,
	"tired":        -2,
	"ugly":         -3,
	"useless":      -2,
	"warm":         1,
	"weak":         -2,
	"welcome":      2,
	"win":          4,
	"wonderful":    4,
	"worry":        -3,
	"worse":        -3,
	"worst":        -3,
	"wow":          4,
	"wrong":        -2,
	"yeah":         1,
	"yes":          1,
}
