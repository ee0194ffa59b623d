// Package services holds the journal pipeline: entry management, index
// passes, retrieval, the local tools, planning and chat completion, plus the
// scheduler that drives index passes in the background.
//
// Services only talk to adapters through the driven ports.
package services
