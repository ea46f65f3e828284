package swap

// Version is the tableswap release version.
const Version = "0.1.0"
