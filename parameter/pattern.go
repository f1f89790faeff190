package parameter

// Pattern characters
const (
	// PatternKeep leaves a cell untouched
	PatternKeep = '.'

	// PatternClear forces a cell Empty
	PatternClear = ' '
)

// HelloWorldPattern is the decorative wall layout shown with -walls
const HelloWorldPattern = `
...........................
...........................
...........................
.H..H..EEE..L....L.....OO..
.H..H..E....L....L....O..O.
.HHHH..EE...L....L....O..O.
.H..H..E....L....L....O..O.
.H..H..EEE..LLL..LLL...OO..
...........................
.W.....W...OO...RRR..MM.MM.
.W.....W..O..O..R.R..M.M.M.
.W..W..W..O..O..RR...M.M.M.
.W..W..W..O..O..R.R..M...M.
..WW.WW....OO...R.R..M...M.
...........................
...........................
`
