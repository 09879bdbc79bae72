// Package presentation keeps the state shown to one user: the ranked results of
// the last input change and the index of the result being displayed. Changing
// the selection only re-renders; only new inputs run the enumerator again.
package presentation
