package symdb

// pointGroup is a crystal class given by the generators of its rotation
// parts, written as coordinate triplets in the conventional setting.
type pointGroup struct {
	generators []string
	order      int
}

// Trigonal and hexagonal classes use hexagonal axes. The setting-dependent
// classes (312/321, 3m1/31m, -31m/-3m1, -42m/-4m2, -6m2/-62m) are kept apart
// because their operations differ.
var pointGroups = map[string]pointGroup{
	"1":     {order: 1},
	"-1":    {generators: []string{"-x,-y,-z"}, order: 2},
	"2":     {generators: []string{"-x,y,-z"}, order: 2},
	"m":     {generators: []string{"x,-y,z"}, order: 2},
	"2/m":   {generators: []string{"-x,y,-z", "-x,-y,-z"}, order: 4},
	"222":   {generators: []string{"-x,-y,z", "-x,y,-z"}, order: 4},
	"mm2":   {generators: []string{"-x,-y,z", "x,-y,z"}, order: 4},
	"mmm":   {generators: []string{"-x,-y,z", "-x,y,-z", "-x,-y,-z"}, order: 8},
	"4":     {generators: []string{"-y,x,z"}, order: 4},
	"-4":    {generators: []string{"y,-x,-z"}, order: 4},
	"4/m":   {generators: []string{"-y,x,z", "-x,-y,-z"}, order: 8},
	"422":   {generators: []string{"-y,x,z", "x,-y,-z"}, order: 8},
	"4mm":   {generators: []string{"-y,x,z", "x,-y,z"}, order: 8},
	"-42m":  {generators: []string{"y,-x,-z", "x,-y,-z"}, order: 8},
	"-4m2":  {generators: []string{"y,-x,-z", "x,-y,z"}, order: 8},
	"4/mmm": {generators: []string{"-y,x,z", "x,-y,-z", "-x,-y,-z"}, order: 16},
	"3":     {generators: []string{"-y,x-y,z"}, order: 3},
	"-3":    {generators: []string{"-y,x-y,z", "-x,-y,-z"}, order: 6},
	"312":   {generators: []string{"-y,x-y,z", "-y,-x,-z"}, order: 6},
	"321":   {generators: []string{"-y,x-y,z", "y,x,-z"}, order: 6},
	"3m1":   {generators: []string{"-y,x-y,z", "-y,-x,z"}, order: 6},
	"31m":   {generators: []string{"-y,x-y,z", "y,x,z"}, order: 6},
	"-31m":  {generators: []string{"-y,x-y,z", "-y,-x,-z", "-x,-y,-z"}, order: 12},
	"-3m1":  {generators: []string{"-y,x-y,z", "y,x,-z", "-x,-y,-z"}, order: 12},
	"6":     {generators: []string{"x-y,x,z"}, order: 6},
	"-6":    {generators: []string{"-y,x-y,z", "x,y,-z"}, order: 6},
	"6/m":   {generators: []string{"x-y,x,z", "-x,-y,-z"}, order: 12},
	"622":   {generators: []string{"x-y,x,z", "y,x,-z"}, order: 12},
	"6mm":   {generators: []string{"x-y,x,z", "-y,-x,z"}, order: 12},
	"-6m2":  {generators: []string{"-y,x-y,z", "x,y,-z", "-y,-x,z"}, order: 12},
	"-62m":  {generators: []string{"-y,x-y,z", "x,y,-z", "y,x,-z"}, order: 12},
	"6/mmm": {generators: []string{"x-y,x,z", "y,x,-z", "-x,-y,-z"}, order: 24},
	"23":    {generators: []string{"z,x,y", "-x,-y,z", "-x,y,-z"}, order: 12},
	"m-3":   {generators: []string{"z,x,y", "-x,-y,z", "-x,y,-z", "-x,-y,-z"}, order: 24},
	"432":   {generators: []string{"z,x,y", "-y,x,z"}, order: 24},
	"-43m":  {generators: []string{"z,x,y", "y,-x,-z"}, order: 24},
	"m-3m":  {generators: []string{"z,x,y", "-y,x,z", "-x,-y,-z"}, order: 48},
}

// classRuns assigns a point group to each run of consecutive space-group
// numbers; a run ends at last.
var classRuns = []struct {
	last  int
	class string
}{
	{1, "1"}, {2, "-1"}, {5, "2"}, {9, "m"}, {15, "2/m"},
	{24, "222"}, {46, "mm2"}, {74, "mmm"},
	{80, "4"}, {82, "-4"}, {88, "4/m"}, {98, "422"}, {110, "4mm"},
	{114, "-42m"}, {120, "-4m2"}, {122, "-42m"}, {142, "4/mmm"},
	{146, "3"}, {148, "-3"},
	{149, "312"}, {150, "321"}, {151, "312"}, {152, "321"}, {153, "312"}, {155, "321"},
	{156, "3m1"}, {157, "31m"}, {158, "3m1"}, {159, "31m"}, {161, "3m1"},
	{163, "-31m"}, {167, "-3m1"},
	{173, "6"}, {174, "-6"}, {176, "6/m"}, {182, "622"}, {186, "6mm"},
	{188, "-6m2"}, {190, "-62m"}, {194, "6/mmm"},
	{199, "23"}, {206, "m-3"}, {214, "432"}, {220, "-43m"}, {230, "m-3m"},
}

// classOf returns the point-group symbol of a space-group number.
func classOf(number int) (string, bool) {
	if number < 1 || number > len(hermannMauguin) {
		return "", false
	}
	for _, run := range classRuns {
		if number <= run.last {
			return run.class, true
		}
	}
	return "", false
}
