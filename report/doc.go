// Package report renders a finished detection run as CSV or JSON.
//
// Both renderings follow the same column contract:
//
//	Vehicle, Block, Route, Trip, End_Trip, Start_Stop, End_Stop,
//	Loop_Completed_At, Loop_Count, Total_Miles, Trip_Flip
//
// plus one trailing aggregate row with the literal vehicle value
// "Total".
package report
