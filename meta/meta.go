// meta/meta.go
package meta

// ATTACKERS is the default number of attacking units, including the occupying unit.
const ATTACKERS = 12

// DEFENDERS is the default number of defending units.
const DEFENDERS = 12

// TRIALS defines the number of battles simulated per estimate.
const TRIALS = 10_000_000

// WORKERS defines the number of goroutines used to run trials.
const WORKERS = 1

// BATCH_SIZE is the number of trials sharing one random stream.
const BATCH_SIZE = 10_000

// POLICY is the name of the defender dice policy used unless configured otherwise.
const POLICY = "max"
