package classify

import "fmt"

// Unclassified is the terminal sentinel assigned to records no strategy
// could label. It is reserved and never part of the school enumeration.
const Unclassified = "Unclassified"

// Seed pins one well-known economist to a school. Seed labels are
// authoritative ground truth and are never overridden by later stages.
type Seed struct {
	Name   string
	School string
}

// Taxonomy is the immutable label configuration injected into the
// cascade: the closed school enumeration, per-school descriptions used in
// classifier prompts, keyword phrases for text scoring, and the seed
// table. Tests substitute small fixture taxonomies.
type Taxonomy struct {
	// Schools is the closed enumeration, in stable order. Every label a
	// classifier produces must come from this list.
	Schools []string

	// Descriptions summarizes each school for prompt construction.
	Descriptions map[string]string

	// Keywords holds lowercase phrases matched as substrings during
	// keyword scoring.
	Keywords map[string][]string

	// Seeds is evaluated in order; when the same name appears twice the
	// last entry wins. Iteration order must stay deterministic, which is
	// why this is a slice and not a map.
	Seeds []Seed
}

// Contains reports whether the label is part of the closed enumeration.
// The Unclassified sentinel is not a school.
func (t *Taxonomy) Contains(label string) bool {
	for _, s := range t.Schools {
		if s == label {
			return true
		}
	}
	return false
}

// Validate checks that every seed and keyword entry references a school
// from the enumeration. A violation is a configuration defect and fails
// loudly instead of surfacing as silent misclassification later.
func (t *Taxonomy) Validate() error {
	if len(t.Schools) == 0 {
		return fmt.Errorf("taxonomy has no schools")
	}
	for _, seed := range t.Seeds {
		if !t.Contains(seed.School) {
			return fmt.Errorf("seed %q references unknown school %q", seed.Name, seed.School)
		}
	}
	for school := range t.Keywords {
		if !t.Contains(school) {
			return fmt.Errorf("keyword table references unknown school %q", school)
		}
	}
	return nil
}

// DefaultTaxonomy returns the curated school-of-thought configuration for
// the economist dataset.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Schools: []string{
			"Keynesian",
			"New Keynesian",
			"Austrian School",
			"Chicago School",
			"Classical/Neoclassical",
			"Marxian",
			"Institutional",
			"Behavioral",
			"Game Theory",
			"Development",
			"Public Choice",
			"Econometrics",
			"Finance",
			"Labor Economics",
			"International Trade",
			"Economic History",
			"Political Economy",
			"Welfare & Public Economics",
			"Environmental Economics",
			"Other",
		},
		Descriptions: map[string]string{
			"Keynesian":                  "fiscal policy, aggregate demand management, IS-LM, business cycles, Keynes's General Theory",
			"New Keynesian":              "DSGE models, nominal rigidities, sticky prices, inflation targeting, modern central banking",
			"Austrian School":            "spontaneous order, praxeology, capital theory, business cycle theory, Hayek/Mises tradition",
			"Chicago School":             "price theory, monetarism, law & economics, rational expectations, free-market micro/macro",
			"Classical/Neoclassical":     "general equilibrium, marginal utility, supply & demand, Walrasian/Marshallian tradition, pre-Keynes",
			"Marxian":                    "surplus value, class struggle, modes of production, capital accumulation critique, historical materialism",
			"Institutional":              "transaction costs, path dependence, evolutionary economics, veblenian tradition, new institutional economics",
			"Behavioral":                 "cognitive biases, prospect theory, bounded rationality, nudges, psychology applied to economic decisions",
			"Game Theory":                "strategic interaction, Nash equilibrium, mechanism design, auction theory, matching theory",
			"Development":                "poverty in developing countries, growth in low-income economies, aid, structural transformation, development aid",
			"Public Choice":              "government failure, rent-seeking, constitutional economics, voting behavior, bureaucracy",
			"Econometrics":               "causal inference, instrumental variables, regression discontinuity, panel data, empirical identification",
			"Finance":                    "asset pricing, capital markets, banking, corporate finance, risk management, financial intermediation",
			"Labor Economics":            "wages, employment, human capital, labor markets, minimum wage, unions, migration",
			"International Trade":        "comparative advantage, trade policy, globalization, tariffs, trade agreements, WTO",
			"Economic History":           "cliometrics, long-run economic growth, historical economic analysis, industrial revolution",
			"Political Economy":          "political institutions, state capacity, electoral economics, political constraints on policy",
			"Welfare & Public Economics": "public finance, optimal taxation, public goods, externalities, social insurance, redistribution",
			"Environmental Economics":    "carbon pricing, climate change economics, natural resource management, pollution policy",
			"Other":                      "does not clearly fit any of the above",
		},
		Keywords: map[string][]string{
			"Classical/Neoclassical": {
				"classical economics", "neoclassical economics", "general equilibrium",
				"marginalist", "marginal utility", "laissez-faire", "invisible hand",
				"political economy of", "physiocrat", "mercantil",
			},
			"Keynesian": {
				"keynesian", "aggregate demand", "fiscal stimulus", "liquidity trap",
				"effective demand", "post-keynesian", "income-expenditure",
			},
			"New Keynesian": {
				"new keynesian", "sticky prices", "nominal rigidities", "dsge",
				"dynamic stochastic general equilibrium", "new neoclassical synthesis",
			},
			"Austrian School": {
				"austrian school", "praxeology", "spontaneous order", "von mises",
				"hayekian", "capital theory", "business cycle theory",
			},
			"Chicago School": {
				"chicago school", "price theory", "law and economics",
				"rational expectations", "monetarism", "free-market economics",
			},
			"Marxian": {
				"marxian", "marxist economics", "historical materialism",
				"surplus value", "capital accumulation", "class struggle",
				"mode of production", "political economy of capitalism",
			},
			"Institutional": {
				"institutional economics", "institutionalism", "transaction cost",
				"path dependence", "evolutionary economics", "veblenian",
				"new institutional economics",
			},
			"Behavioral": {
				"behavioral economics", "behavioural economics", "cognitive bias",
				"bounded rationality", "prospect theory", "nudge theory",
				"heuristics and biases", "dual process",
			},
			"Game Theory": {
				"game theory", "nash equilibrium", "mechanism design",
				"auction theory", "matching theory", "cooperative game",
				"non-cooperative game", "bargaining theory",
			},
			"Development": {
				"development economics", "economic development",
				"poverty trap", "aid effectiveness", "structural transformation",
				"dependency theory", "modernization theory",
			},
			"Public Choice": {
				"public choice", "constitutional economics", "rent-seeking",
				"social choice theory", "voting theory", "bureaucracy theory",
			},
			"Econometrics": {
				"econometrics", "instrumental variables", "regression discontinuity",
				"difference-in-differences", "panel data", "time series analysis",
				"causal inference", "identification strategy",
			},
			"Finance": {
				"financial economics", "asset pricing", "efficient market hypothesis",
				"portfolio theory", "option pricing", "financial intermediation",
				"corporate finance", "investment theory",
			},
			"Labor Economics": {
				"labor economics", "labour economics", "wage determination",
				"human capital theory", "job search theory", "minimum wage",
				"labor market", "collective bargaining",
			},
			"International Trade": {
				"international trade", "trade theory", "comparative advantage",
				"heckscher-ohlin", "new trade theory", "gravity model of trade",
				"trade policy", "globalization",
			},
			"Economic History": {
				"economic history", "cliometrics", "historical economics",
				"industrial revolution", "great depression", "economic historian",
				"long-run economic", "archival economic",
			},
			"Political Economy": {
				"political economy", "political economics", "electoral economics",
				"distributive politics", "state capacity", "economic institutions",
				"political institutions",
			},
			"Welfare & Public Economics": {
				"welfare economics", "public economics", "public finance",
				"taxation theory", "public goods", "social welfare function",
				"optimal taxation", "externalities",
			},
			"Environmental Economics": {
				"environmental economics", "resource economics", "carbon tax",
				"climate economics", "natural resource economics",
				"ecological economics", "environmental policy",
			},
		},
		Seeds: defaultSeeds(),
	}
}

// defaultSeeds lists the curated seed economists in evaluation order.
// Names are kept in their simplest recognizable form; name normalization
// strips middle initials on both sides of the lookup, so "Lawrence Katz"
// matches a scraped "Lawrence F. Katz".
func defaultSeeds() []Seed {
	return []Seed{
		// Austrian School
		{"Carl Menger", "Austrian School"}, {"Ludwig von Mises", "Austrian School"},
		{"Friedrich Hayek", "Austrian School"}, {"Eugen von Böhm-Bawerk", "Austrian School"},
		{"Murray Rothbard", "Austrian School"}, {"Israel Kirzner", "Austrian School"},
		{"Friedrich von Wieser", "Austrian School"}, {"Oskar Morgenstern", "Austrian School"},
		{"Gottfried Haberler", "Austrian School"}, {"Fritz Machlup", "Austrian School"},
		// Chicago School
		{"Milton Friedman", "Chicago School"}, {"George Stigler", "Chicago School"},
		{"Gary Becker", "Chicago School"}, {"Eugene Fama", "Chicago School"},
		{"Ronald Coase", "Chicago School"}, {"Frank Knight", "Chicago School"},
		{"Jacob Viner", "Chicago School"}, {"Thomas Sowell", "Chicago School"},
		{"Harold Demsetz", "Chicago School"}, {"Sherwin Rosen", "Chicago School"},
		{"Robert Fogel", "Chicago School"}, {"Lars Peter Hansen", "Chicago School"},
		{"Steven Levitt", "Chicago School"}, {"Armen Alchian", "Chicago School"},
		// Keynesian
		{"John Maynard Keynes", "Keynesian"}, {"Paul Samuelson", "Keynesian"},
		{"James Tobin", "Keynesian"}, {"Franco Modigliani", "Keynesian"},
		{"Robert Solow", "Keynesian"}, {"Lawrence Klein", "Keynesian"},
		{"Alvin Hansen", "Keynesian"}, {"Joan Robinson", "Keynesian"},
		{"Nicholas Kaldor", "Keynesian"}, {"Abba Lerner", "Keynesian"},
		{"Evsey Domar", "Keynesian"}, {"James Meade", "Keynesian"},
		// New Keynesian
		{"Joseph Stiglitz", "New Keynesian"}, {"Paul Krugman", "New Keynesian"},
		{"Olivier Blanchard", "New Keynesian"}, {"Janet Yellen", "New Keynesian"},
		{"Ben Bernanke", "New Keynesian"}, {"Jordi Galí", "New Keynesian"},
		{"Stanley Fischer", "New Keynesian"}, {"John Taylor", "New Keynesian"},
		{"David Romer", "New Keynesian"}, {"Alan Blinder", "New Keynesian"},
		{"Mark Gertler", "New Keynesian"}, {"Emmanuel Farhi", "New Keynesian"},
		// Classical/Neoclassical
		{"Adam Smith", "Classical/Neoclassical"}, {"David Ricardo", "Classical/Neoclassical"},
		{"John Stuart Mill", "Classical/Neoclassical"}, {"Alfred Marshall", "Classical/Neoclassical"},
		{"Léon Walras", "Classical/Neoclassical"}, {"William Stanley Jevons", "Classical/Neoclassical"},
		{"Vilfredo Pareto", "Classical/Neoclassical"}, {"Knut Wicksell", "Classical/Neoclassical"},
		{"Irving Fisher", "Classical/Neoclassical"}, {"John Bates Clark", "Classical/Neoclassical"},
		{"David Hume", "Classical/Neoclassical"}, {"François Quesnay", "Classical/Neoclassical"},
		// Marxian
		{"Karl Marx", "Marxian"}, {"Friedrich Engels", "Marxian"},
		{"Rosa Luxemburg", "Marxian"}, {"Paul Sweezy", "Marxian"},
		{"Piero Sraffa", "Marxian"}, {"Anwar Shaikh", "Marxian"},
		{"David Harvey", "Marxian"}, {"Samuel Bowles", "Marxian"},
		{"Duncan Foley", "Marxian"},
		// Institutional
		{"Thorstein Veblen", "Institutional"}, {"John Commons", "Institutional"},
		{"John Kenneth Galbraith", "Institutional"}, {"Gunnar Myrdal", "Institutional"},
		{"Oliver Williamson", "Institutional"}, {"Albert Hirschman", "Institutional"},
		{"Kenneth Boulding", "Institutional"},
		// Behavioral
		{"Daniel Kahneman", "Behavioral"}, {"Richard Thaler", "Behavioral"},
		{"Robert Shiller", "Behavioral"}, {"George Akerlof", "Behavioral"},
		{"Colin Camerer", "Behavioral"}, {"Dan Ariely", "Behavioral"},
		{"Sendhil Mullainathan", "Behavioral"}, {"Matthew Rabin", "Behavioral"},
		{"David Laibson", "Behavioral"}, {"Stefano DellaVigna", "Behavioral"},
		{"Xavier Gabaix", "Behavioral"},
		// Game Theory
		{"John von Neumann", "Game Theory"}, {"John Harsanyi", "Game Theory"},
		{"Reinhard Selten", "Game Theory"}, {"Robert Aumann", "Game Theory"},
		{"Thomas Schelling", "Game Theory"}, {"Lloyd Shapley", "Game Theory"},
		{"Jean Tirole", "Game Theory"}, {"Eric Maskin", "Game Theory"},
		{"Roger Myerson", "Game Theory"}, {"Drew Fudenberg", "Game Theory"},
		{"Ariel Rubinstein", "Game Theory"}, {"David Kreps", "Game Theory"},
		{"Robert Wilson", "Game Theory"}, {"Paul Milgrom", "Game Theory"},
		{"Bengt Holmström", "Game Theory"}, {"Oliver Hart", "Game Theory"},
		// Development
		{"Amartya Sen", "Development"}, {"Abhijit Banerjee", "Development"},
		{"Esther Duflo", "Development"}, {"Michael Kremer", "Development"},
		{"William Easterly", "Development"}, {"Jeffrey Sachs", "Development"},
		{"Arthur Lewis", "Development"}, {"Angus Deaton", "Development"},
		{"Theodore Schultz", "Development"}, {"W. Arthur Lewis", "Development"},
		{"Partha Dasgupta", "Development"},
		// Public Choice
		{"James Buchanan", "Public Choice"}, {"Bryan Caplan", "Public Choice"},
		{"Anthony Downs", "Public Choice"},
		// Econometrics
		{"Jan Tinbergen", "Econometrics"}, {"James Heckman", "Econometrics"},
		{"Daniel McFadden", "Econometrics"}, {"Joshua Angrist", "Econometrics"},
		{"Guido Imbens", "Econometrics"}, {"David Card", "Econometrics"},
		{"Robert Engle", "Econometrics"}, {"Jerry Hausman", "Econometrics"},
		{"Whitney Newey", "Econometrics"},
		// Finance
		{"Harry Markowitz", "Finance"}, {"William Sharpe", "Finance"},
		{"Fischer Black", "Finance"}, {"Myron Scholes", "Finance"},
		{"Robert Merton", "Finance"}, {"Stephen Ross", "Finance"},
		{"Michael Jensen", "Finance"}, {"Stewart Myers", "Finance"},
		{"Andrew Lo", "Finance"},
		// Labor Economics. James Heckman appears above under Econometrics;
		// the later entry wins, which keeps him with the labor cluster.
		{"Jacob Mincer", "Labor Economics"}, {"James Heckman", "Labor Economics"},
		{"Alan Krueger", "Labor Economics"}, {"Lawrence Katz", "Labor Economics"},
		{"Claudia Goldin", "Labor Economics"}, {"George Borjas", "Labor Economics"},
		{"Orley Ashenfelter", "Labor Economics"}, {"Edward Lazear", "Labor Economics"},
		{"Richard Freeman", "Labor Economics"}, {"Raj Chetty", "Labor Economics"},
		{"David Autor", "Labor Economics"}, {"Lawrence Summers", "Labor Economics"},
		{"Peter Diamond", "Labor Economics"},
		// International Trade
		{"Elhanan Helpman", "International Trade"}, {"Gene Grossman", "International Trade"},
		{"Jagdish Bhagwati", "International Trade"}, {"Avinash Dixit", "International Trade"},
		{"Robert Feenstra", "International Trade"}, {"Dani Rodrik", "International Trade"},
		// Welfare & Public Economics
		{"Martin Feldstein", "Welfare & Public Economics"},
		{"James Poterba", "Welfare & Public Economics"},
		{"Richard Musgrave", "Welfare & Public Economics"},
	}
}
