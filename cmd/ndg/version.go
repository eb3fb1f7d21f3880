// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ndg

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feel-co/ndg/pkg/version"
)

// newVersionCmd creates a version command printing the binary
// version as reported by pkg/version.Version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Version)
		},
	}
}
