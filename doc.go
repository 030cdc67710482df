// Package portfel values a personal list of holdings and projects retirement
// savings. It is designed to be local-first: positions are typed as free text,
// market data is fetched from an injected collaborator, and every figure is
// recomputed from scratch on each evaluation.
//
// The core functionalities include:
//   - Position Parsing: turning "TICKER,QUANTITY[,PURCHASE_PRICE][,ACCOUNT]"
//     lines into immutable [Holding] values, with warnings for skipped lines.
//   - Currency Resolution: a best-effort trading currency derived from the
//     ticker suffix (see [ResolveCurrency]).
//   - Valuation: combining holdings, quotes and FX rates into per-position and
//     aggregate figures in a single base currency (see [Valuate]). Unknown
//     prices or rates propagate as unknown values, they never default to zero.
//   - Retirement Projection: required capital, wealth trajectories and the
//     monthly saving needed to reach a target (see [RequiredCapital],
//     [SimulateWealth] and [RequiredMonthlySaving]).
//   - Persistence: the raw positions text and a small settings object are kept
//     as plain files (see [Store]).
//
// This package serves as the foundational logic for the `portfel` command-line
// tool.
package portfel
