// Command permemctl inspects and dumps permem regions stored in files on
// disk, independent of whatever process wrote them.
package main

func main() {
	execute()
}
