// Package functions contains the scalar functions that operate on Blocks, and the Factory they are looked up in.
package functions

import (
	"os"
	"time"

	"github.com/squareup/strata/common"
)

// Function computes one result column from argument columns of the same Block.
//
// ReturnType is called once when the call is bound. It validates the arguments, which carry their columns
// when those are known in advance (constants), and returns the type of the result.
//
// Execute fills the Column of the result position of block. The result must have the same number of rows as the
// arguments. Argument columns are never modified.
type Function interface {
	Name() string
	ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error)
	Execute(block *common.Block, arguments []int, result int) error
}

// Catalog answers metadata questions about the tables functions may refer to.
type Catalog interface {
	// HasColumn fails with UnknownDatabase or UnknownTable if the table does not exist.
	HasColumn(database string, table string, column string) (bool, error)
}

// Context is shared by every Function created by one Factory.
type Context struct {
	Catalog         Catalog
	CurrentDatabase string
	StartTime       time.Time
	HostName        string
	Version         string
}

// Version is reported by the version() function when the Context does not set one.
var Version = "0.1.0"

func NewContext(catalog Catalog, currentDatabase string) *Context {
	hostName, err := os.Hostname()
	if err != nil {
		hostName = "localhost"
	}
	return &Context{
		Catalog:         catalog,
		CurrentDatabase: currentDatabase,
		StartTime:       time.Now(),
		HostName:        hostName,
		Version:         Version,
	}
}

// ExecuteOnBlock binds f against the given positions of block, adds an unnamed result column and executes it.
// It returns the position of the result.
func ExecuteOnBlock(f Function, block *common.Block, arguments []int) (int, error) {
	typ, err := f.ReturnType(argumentsAt(block, arguments))
	if err != nil {
		return 0, err
	}
	result, err := block.Insert(common.ColumnWithTypeAndName{Type: typ})
	if err != nil {
		return 0, err
	}
	if err := f.Execute(block, arguments, result); err != nil {
		return 0, err
	}
	return result, nil
}
