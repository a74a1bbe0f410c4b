package schema

// StateLevels lists the 50 US states plus DC in alphabetical order of their
// postal abbreviations. The order is part of the shared codebook: both tables
// and every weight vector in the default configuration index into it.
var StateLevels = []string{
	"AK", "AL", "AR", "AZ", "CA", "CO", "CT", "DC", "DE", "FL",
	"GA", "HI", "IA", "ID", "IL", "IN", "KS", "KY", "LA", "MA",
	"MD", "ME", "MI", "MN", "MO", "MS", "MT", "NC", "ND", "NE",
	"NH", "NJ", "NM", "NV", "NY", "OH", "OK", "OR", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VA", "VT", "WA", "WI", "WV",
	"WY",
}

// StatePopulationWeights holds approximate resident population in millions,
// aligned with StateLevels. Used as the default sampling weights so the
// synthetic panel roughly mirrors the national distribution.
var StatePopulationWeights = []float64{
	0.7, 5.1, 3.1, 7.4, 39.0, 5.9, 3.6, 0.7, 1.0, 22.6,
	11.0, 1.4, 3.2, 2.0, 12.5, 6.9, 2.9, 4.5, 4.6, 7.0,
	6.2, 1.4, 10.0, 5.7, 6.2, 2.9, 1.1, 10.8, 0.8, 2.0,
	1.4, 9.3, 2.1, 3.2, 19.6, 11.8, 4.1, 4.2, 12.9, 1.1,
	5.4, 0.9, 7.1, 30.5, 3.4, 8.7, 0.6, 7.8, 5.9, 1.8,
	0.6,
}
