package parser

/*
#cgo pkg-config: clang
#cgo LDFLAGS: -lclang
*/
import "C"
