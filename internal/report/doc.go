// Package report renders simulation results as figures.
//
// Static PNG figures are drawn with gonum/plot and written through an
// fsutil.FileSystem. Interactive HTML pages are rendered with go-echarts to
// any io.Writer.
package report
