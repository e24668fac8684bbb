package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowAccessKeyGuide explains how to obtain an Unsplash access key
func ShowAccessKeyGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "UNSPLASH ACCESS KEY")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This tool calls the public Unsplash API with an application access key.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 1: Sign in at https://unsplash.com/developers")
	fmt.Fprintln(w, "STEP 2: Open 'Your apps' and create a new application")
	fmt.Fprintln(w, "STEP 3: Accept the API guidelines and name the app")
	fmt.Fprintln(w, "STEP 4: Copy the 'Access Key' from the Keys section")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TIPS:")
	fmt.Fprintln(w, "   - Only the Access Key is needed, never the Secret Key")
	fmt.Fprintln(w, "   - Demo apps are limited to 50 requests per hour")
	fmt.Fprintln(w, "   - You can also set ACCESS_KEY or UNSPLASHDL_ACCESS_KEY instead")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
}
