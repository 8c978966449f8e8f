// Package domain models the 2024 Colombian homicide-rate datasets and the
// queries the observatory dashboard runs against them.
//
// # Data Sources
//
// Two pre-computed, read-only relations are loaded once at startup:
//
//   - a tabular relation with one row per municipality, keyed by
//     (departamento, municipio), carrying the homicide count, the population
//     and the precomputed rate;
//   - a geospatial relation with one polygon or multi-polygon per
//     municipality carrying the same rate column, used only by the map.
//
// Both files are assumed to be cleaned upstream. Nothing here mutates them.
//
// # Administrative Divisions
//
// Colombia's first-level divisions are departamentos (32 plus the capital
// district, Bogotá D.C.) and its second-level divisions are municipios.
// Municipality names repeat across departments ("Rionegro" exists in
// Antioquia and Santander), so every lookup is keyed by the pair.
//
// # Rates
//
// A homicide rate is homicides per 100,000 inhabitants:
//
//	rate = homicides / population * 100000
//
// The municipal rate shown on the dashboard is the stored value, never
// recomputed. The department comparison uses the unweighted mean of the
// municipal rates, while the department aggregate recomputes the ratio from
// summed counts and rounds it to two decimals. The two can disagree; that is
// a property of the data, not an error.
//
// Missing rates are NaN. Means skip them, rankings sort them last and the
// map paints them in the "no data" colour.
//
// # Colour Scale
//
// The choropleth scale runs from 0 to a high percentile of all rates (98 by
// default) so that a handful of outliers do not wash out the map. Rates above
// the cap are painted in the top colour and counted, see [NewColorScale].
package domain
