// Package phase provides elastic ππ scattering phase shifts used as input to
// the Omnès solver.
//
// [GMKPRDEY2011] implements the constrained P-wave (I=1) and D-wave (I=0)
// parameterisations of García-Martín, Kamiński, Peláez, Ruiz de Elvira and
// Ynduráin, continued smoothly to δ → π above 2.0164 GeV².
package phase
